package driver

import "time"

// Stage describes what VerifyDir is doing with a file.
type Stage string

const (
	StageParse  Stage = "parse"
	StageVerify Stage = "verify"
	StageCache  Stage = "cache"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// ProgressEvent reports progress for a file.
type ProgressEvent struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
	// Violations is set on StatusDone and StatusError.
	Violations int
}

// ProgressSink consumes progress events. OnEvent is called from worker
// goroutines.
type ProgressSink interface {
	OnEvent(ProgressEvent)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- ProgressEvent
}

func (s ChannelSink) OnEvent(evt ProgressEvent) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// FuncSink adapts a function.
type FuncSink func(ProgressEvent)

func (f FuncSink) OnEvent(evt ProgressEvent) {
	if f != nil {
		f(evt)
	}
}

func emit(sink ProgressSink, ev ProgressEvent) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
