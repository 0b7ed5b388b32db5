package verify_test

import (
	"strings"
	"testing"

	"github.com/kr/pretty"

	"llvet/internal/diag"
	"llvet/internal/ir"
	"llvet/internal/observ"
	"llvet/internal/parser"
	"llvet/internal/source"
	"llvet/internal/trace"
	"llvet/internal/types"
	"llvet/internal/verify"
)

func parseModule(t *testing.T, src string) *ir.Module {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.ll", []byte(src)))
	m, err := parser.ParseModule(types.NewContext(), file, parser.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return m
}

func run(t *testing.T, src string) *verify.Report {
	t.Helper()
	return verify.Module(parseModule(t, src), verify.Options{})
}

// expectOnly проверяет, что отчёт состоит ровно из n нарушений вида k.
func expectOnly(t *testing.T, rep *verify.Report, k verify.Kind, n int) {
	t.Helper()
	if rep.Len() != n || rep.Count(k) != n {
		t.Fatalf("expected exactly %d %s violation(s), got %d:\n%s", n, k, rep.Len(), dump(rep))
	}
}

func expectOK(t *testing.T, rep *verify.Report) {
	t.Helper()
	if !rep.OK() {
		t.Fatalf("expected valid module, got:\n%s", dump(rep))
	}
}

func dump(rep *verify.Report) string {
	var sb strings.Builder
	for _, v := range rep.Violations {
		sb.WriteString("  " + v.String() + "\n")
	}
	return sb.String()
}

func TestReturnConstantIsValid(t *testing.T) {
	expectOK(t, run(t, "define i32 @f() { ret i32 42 }"))
}

func TestReturnTypeMismatch(t *testing.T) {
	rep := run(t, "define void @f() { ret i32 1 }")
	expectOnly(t, rep, verify.TypeMismatch, 1)
	v := rep.Violations[0]
	if v.Func != "@f" || v.Op != "ret" || v.Inst != 0 {
		t.Fatalf("unexpected location %q", v.Where())
	}
	if !strings.Contains(v.Msg, "void") || !strings.Contains(v.Msg, "i32") {
		t.Fatalf("message should name both types: %q", v.Msg)
	}
}

func TestTruncMustNarrow(t *testing.T) {
	rep := run(t, "define i32 @f() { %x = trunc i64 100 to i64 ret i32 0 }")
	expectOnly(t, rep, verify.TypeMismatch, 1)
	if !strings.Contains(rep.Violations[0].Msg, "strictly narrower") {
		t.Fatalf("unexpected message %q", rep.Violations[0].Msg)
	}
}

func TestCallArity(t *testing.T) {
	rep := run(t, `declare void @g(i32, i32)
define void @f() {
  call void @g(i32 1, i32 2, i32 3)
  ret void
}`)
	expectOnly(t, rep, verify.TypeMismatch, 1)
	if !strings.Contains(rep.Violations[0].Msg, "3 arguments") {
		t.Fatalf("unexpected message %q", rep.Violations[0].Msg)
	}

	expectOK(t, run(t, `declare void @g(i32, ...)
define void @f() {
  call void (i32, ...) @g(i32 1, i32 2, i32 3)
  ret void
}`))
}

func TestCallArgumentType(t *testing.T) {
	rep := run(t, `declare void @g(i32)
define void @f() {
  call void @g(i64 1)
  ret void
}`)
	expectOnly(t, rep, verify.TypeMismatch, 1)
}

func TestPhiPlacement(t *testing.T) {
	expectOK(t, run(t, `define i32 @f() {
entry:
  br label %b
b:
  %p = phi i32 [ 1, %entry ]
  br label %c
c:
  ret i32 %p
}`))

	rep := run(t, `define i32 @f(i1 %c) {
entry:
  br i1 %c, label %a, label %b
a:
  br label %m
b:
  br label %m
m:
  %y = add i32 1, 2
  %p = phi i32 [ 1, %a ], [ 2, %b ]
  ret i32 %p
}`)
	expectOnly(t, rep, verify.IllegalStructure, 1)
	if rep.Violations[0].Phase != verify.PhaseStructural || rep.Violations[0].Block != "%m" {
		t.Fatalf("unexpected violation %s", rep.Violations[0])
	}
}

func TestLoopPhiForwardValue(t *testing.T) {
	expectOK(t, run(t, `define i32 @f() {
entry:
  br label %loop
loop:
  %i = phi i32 [ 0, %entry ], [ %n, %loop ]
  %n = add i32 %i, 1
  %done = icmp eq i32 %n, 10
  br i1 %done, label %exit, label %loop
exit:
  ret i32 %n
}`))
}

func TestMissingTerminator(t *testing.T) {
	rep := run(t, `define void @f() {
entry:
  %x = add i32 1, 2
next:
  ret void
}`)
	expectOnly(t, rep, verify.MissingTerminator, 1)
	if rep.Violations[0].Block != "%entry" {
		t.Fatalf("expected entry block to be reported, got %q", rep.Violations[0].Where())
	}
}

func TestEveryBlockEndsWithTerminator(t *testing.T) {
	m := parseModule(t, `define i32 @f(i1 %c) {
entry:
  br i1 %c, label %a, label %b
a:
  ret i32 1
b:
  ret i32 2
}`)
	expectOK(t, verify.Module(m, verify.Options{}))
	for _, b := range m.Funcs[0].Blocks {
		if b.Terminator() == nil {
			t.Fatalf("block %s has no terminator", b.Name.Local())
		}
	}
}

func TestDominance(t *testing.T) {
	rep := run(t, `define i32 @f(i1 %c) {
entry:
  br i1 %c, label %a, label %b
a:
  %x = add i32 1, 2
  br label %b
b:
  ret i32 %x
}`)
	expectOnly(t, rep, verify.IllegalUse, 1)

	// использования в недостижимых блоках не проверяются
	expectOK(t, run(t, `define i32 @f() {
entry:
  ret i32 0
a:
  %z = add i32 1, 2
  br label %b
c:
  br label %b
b:
  %y = add i32 %z, 1
  ret i32 %y
}`))
}

func TestPhiPredecessorMismatch(t *testing.T) {
	rep := run(t, `define i32 @f() {
entry:
  br label %b
other:
  br label %b
b:
  %p = phi i32 [ 1, %entry ]
  ret i32 %p
}`)
	expectOnly(t, rep, verify.IllegalControlFlow, 1)
}

func TestEntryBlockHasNoPredecessors(t *testing.T) {
	rep := run(t, `define void @f() {
entry:
  br label %entry
}`)
	expectOnly(t, rep, verify.IllegalControlFlow, 1)
}

func TestTypeRules(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"branch condition", "  br i32 %a, label %x, label %x\nx:\n  ret void"},
		{"binary operands", "  %r = add i32 %a, %a\n  %s = fadd float %fl, %fl\n  %t = add float %fl, %fl\n  ret void"},
		{"zext narrows", "  %r = zext i32 %a to i8\n  ret void"},
		{"bitcast size", "  %r = bitcast i32 %a to i64\n  ret void"},
		{"fptosi from int", "  %r = fptosi i32 %a to i32\n  ret void"},
		{"icmp on float", "  %r = icmp eq float %fl, %fl\n  ret void"},
		{"select condition", "  %r = select i32 %a, i32 %a, i32 %a\n  ret void"},
		{"atomic load without align", "  %r = load atomic i32, ptr %p seq_cst\n  ret void"},
		{"release load", "  %r = load atomic i32, ptr %p release, align 4\n  ret void"},
		{"atomicrmw float add", "  %r = atomicrmw add ptr %p, float %fl seq_cst\n  ret void"},
		{"alloca unsized", "  %r = alloca void ()\n  ret void"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "define void @f(i32 %a, float %fl, ptr %p) {\nentry:\n" + tt.body + "\n}"
			rep := run(t, src)
			if rep.Count(verify.TypeMismatch) != 1 {
				t.Fatalf("expected one TypeMismatch, got:\n%s", dump(rep))
			}
		})
	}
}

func TestDerivedResultTypes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"extractvalue index out of range", "  %r = extractvalue { i32, i32 } %s, 5", "invalid extractvalue indices"},
		{"extractvalue of scalar", "  %r = extractvalue i32 %a, 0", "invalid extractvalue indices"},
		{"extractelement of scalar", "  %r = extractelement i32 %a, i32 0", "extractelement operand must be a vector"},
		{"shufflevector of scalars", "  %r = shufflevector i32 %a, i32 %a, <2 x i32> <i32 0, i32 1>", "shufflevector operands must be vectors"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "define void @f(i32 %a, { i32, i32 } %s) {\nentry:\n" + tt.body + "\n  ret void\n}"
			rep := run(t, src)
			expectOnly(t, rep, verify.TypeMismatch, 1)
			if !strings.Contains(rep.Violations[0].Msg, tt.want) {
				t.Fatalf("unexpected message %q", rep.Violations[0].Msg)
			}
		})
	}
}

func TestSwitchDuplicateCase(t *testing.T) {
	rep := run(t, `define void @f(i32 %a) {
entry:
  switch i32 %a, label %d [ i32 1, label %d
                            i32 1, label %d ]
d:
  ret void
}`)
	expectOnly(t, rep, verify.IllegalControlFlow, 1)
}

func TestAttributeRules(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"pointer only", "define void @f(i32 nonnull %x) { ret void }"},
		{"integer only", "define void @f(ptr zeroext %x) { ret void }"},
		{"exclusive", "define void @f(i8 zeroext signext %x) { ret void }"},
		{"sret position", "define void @f(i32 %a, i32 %b, ptr sret(i32) %c) { ret void }"},
		{"inline conflict", "define void @f() alwaysinline noinline { ret void }"},
		{"naked uses", "define i32 @f(i32 %x) naked { ret i32 %x }"},
		{"byval with sret", "define void @f(ptr byval(i32) sret(i32) %p) { ret void }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectOnly(t, run(t, tt.src), verify.IllegalAttribute, 1)
		})
	}
}

func TestMustTail(t *testing.T) {
	expectOK(t, run(t, `define i32 @f(i32 %x) {
  %r = musttail call i32 @f(i32 %x)
  ret i32 %r
}`))

	rep := run(t, `define i32 @f(i32 %x) {
  %r = musttail call i32 @f(i32 %x)
  %s = add i32 %r, 1
  ret i32 %s
}`)
	expectOnly(t, rep, verify.IllegalAttribute, 1)
}

func TestMustTailSignature(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"calling convention", `declare i32 @g(i32)
define fastcc i32 @f(i32 %x) {
  %r = musttail call i32 @g(i32 %x)
  ret i32 %r
}`},
		{"varargs", `declare i32 @g(i32, ...)
define i32 @f(i32 %x) {
  %r = musttail call i32 (i32, ...) @g(i32 %x)
  ret i32 %r
}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectOnly(t, run(t, tt.src), verify.IllegalAttribute, 1)
		})
	}
}

func TestExceptionHandling(t *testing.T) {
	expectOK(t, run(t, `declare i32 @pers(...)
declare void @g()
define void @f() personality ptr @pers {
entry:
  invoke void @g() to label %ok unwind label %lp
ok:
  ret void
lp:
  %l = landingpad { ptr, i32 } cleanup
  resume { ptr, i32 } %l
}`))

	tests := []struct {
		name string
		src  string
	}{
		{"landingpad reached by br", `declare i32 @pers(...)
define void @f() personality ptr @pers {
entry:
  br label %lp
lp:
  %l = landingpad { ptr, i32 } cleanup
  resume { ptr, i32 } %l
}`},
		{"invoke unwinds to plain block", `declare i32 @pers(...)
declare void @g()
define void @f() personality ptr @pers {
entry:
  invoke void @g() to label %ok unwind label %bad
ok:
  ret void
bad:
  ret void
}`},
		{"landingpad without personality", `declare void @g()
define void @f() {
entry:
  invoke void @g() to label %ok unwind label %lp
ok:
  ret void
lp:
  %l = landingpad { ptr, i32 } cleanup
  resume { ptr, i32 } %l
}`},
		{"resume without personality", `define void @f({ ptr, i32 } %e) {
entry:
  resume { ptr, i32 } %e
}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectOnly(t, run(t, tt.src), verify.IllegalControlFlow, 1)
		})
	}
}

func TestMetadataRules(t *testing.T) {
	expectOK(t, run(t, `define i32 @f(ptr %p) {
  %v = load i32, ptr %p, !range !0
  ret i32 %v
}
!0 = !{i32 0, i32 10}`))

	tests := []struct {
		name string
		src  string
	}{
		{"odd range", "define i32 @f(ptr %p) {\n  %v = load i32, ptr %p, !range !0\n  ret i32 %v\n}\n!0 = !{i32 0}"},
		{"range type", "define i32 @f(ptr %p) {\n  %v = load i32, ptr %p, !range !0\n  ret i32 %v\n}\n!0 = !{i64 0, i64 10}"},
		{"nonnull on int", "define i32 @f(ptr %p) {\n  %v = load i32, ptr %p, !nonnull !0\n  ret i32 %v\n}\n!0 = !{}"},
		{"range on add", "define i32 @f(i32 %a) {\n  %v = add i32 %a, 1, !range !0\n  ret i32 %v\n}\n!0 = !{i32 0, i32 10}"},
		{"dbg not location", "define void @f() {\n  ret void, !dbg !0\n}\n!0 = !{}"},
		{"module flag behavior", "!llvm.module.flags = !{!0}\n!0 = !{i32 9, !\"wchar_size\", i32 4}"},
		{"module flag shape", "!llvm.module.flags = !{!0}\n!0 = !{i32 1}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectOnly(t, run(t, tt.src), verify.IllegalMetadata, 1)
		})
	}
}

func TestCollectAllIsDeterministic(t *testing.T) {
	src := `declare void @g(i32, i32)
define void @f(i32 nonnull %x) {
entry:
  call void @g(i32 1)
  %t = trunc i32 %x to i64
  ret i32 0
}`
	m := parseModule(t, src)
	first := verify.Module(m, verify.Options{})
	second := verify.Module(m, verify.Options{})
	if first.Len() < 3 {
		t.Fatalf("expected several violations, got:\n%s", dump(first))
	}
	if diff := pretty.Diff(first, second); len(diff) != 0 {
		t.Fatalf("reports differ between runs:\n%s", strings.Join(diff, "\n"))
	}
}

func TestMaxViolations(t *testing.T) {
	m := parseModule(t, `define void @f() {
  %a = trunc i8 1 to i8
  %b = trunc i8 1 to i8
  %c = trunc i8 1 to i8
  ret void
}`)
	rep := verify.Module(m, verify.Options{MaxViolations: 1})
	if rep.Len() != 1 || rep.Dropped != 2 {
		t.Fatalf("expected 1 kept and 2 dropped, got %d and %d", rep.Len(), rep.Dropped)
	}
	if rep.OK() {
		t.Fatalf("report with dropped violations is not OK")
	}
}

func TestPhaseSelection(t *testing.T) {
	m := parseModule(t, "define void @f() { ret i32 1 }")
	expectOK(t, verify.Module(m, verify.Options{Phases: verify.PhaseStructural | verify.PhaseCFG}))

	timer := observ.NewTimer()
	rep := verify.Module(m, verify.Options{Phases: verify.PhaseType, Timer: timer})
	expectOnly(t, rep, verify.TypeMismatch, 1)
	phases := timer.Report().Phases
	if len(phases) != 1 || phases[0].Name != "verify/type" || phases[0].Note != "1 violations" {
		t.Fatalf("unexpected timer entries: %# v", pretty.Formatter(phases))
	}
}

func TestParsePhases(t *testing.T) {
	p, err := verify.ParsePhases([]string{"structural", " CFG "})
	if err != nil {
		t.Fatalf("ParsePhases: %v", err)
	}
	if p != verify.PhaseStructural|verify.PhaseCFG {
		t.Fatalf("got %s", p)
	}
	if p, _ := verify.ParsePhases([]string{"all"}); p != verify.AllPhases {
		t.Fatalf("all should select every phase, got %s", p)
	}
	if _, err := verify.ParsePhases([]string{"dataflow"}); err == nil {
		t.Fatalf("expected error for unknown phase")
	}
	if got := verify.AllPhases.String(); got != "structural,type,cfg,attributes,metadata" {
		t.Fatalf("unexpected phase string %q", got)
	}
}

func TestEmitDiagnostics(t *testing.T) {
	rep := run(t, "define void @f() { ret i32 1 }")
	bag := diag.NewBag(0)
	rep.Emit(diag.BagReporter{Bag: bag})
	if bag.Len() != 1 || !bag.HasErrors() {
		t.Fatalf("expected one error diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.VerTypeMismatch {
		t.Fatalf("expected %s, got %s", diag.VerTypeMismatch.ID(), d.Code.ID())
	}
	if !strings.HasPrefix(d.Message, "@f ") || !strings.Contains(d.Message, "(ret)") {
		t.Fatalf("message should start with the location: %q", d.Message)
	}
}

func TestKindCodes(t *testing.T) {
	kinds := []verify.Kind{
		verify.TypeMismatch, verify.MissingTerminator, verify.IllegalStructure,
		verify.IllegalAttribute, verify.IllegalControlFlow, verify.IllegalMetadata,
		verify.IllegalUse, verify.Internal,
	}
	seen := make(map[diag.Code]bool)
	for _, k := range kinds {
		c := k.Code()
		if seen[c] {
			t.Fatalf("kind %s shares code %s", k, c.ID())
		}
		seen[c] = true
		if !strings.HasPrefix(c.ID(), "VER") {
			t.Fatalf("kind %s maps to non-verifier code %s", k, c.ID())
		}
	}
}

func TestPhaseSpans(t *testing.T) {
	m := parseModule(t, "define void @f() { ret i32 1 }")
	ring := trace.NewRingTracer(16, trace.LevelPhase)
	verify.Module(m, verify.Options{Phases: verify.PhaseStructural | verify.PhaseType, Tracer: ring, TraceParent: 7})

	var ends []string
	for _, ev := range ring.Snapshot() {
		if ev.ParentID != 7 {
			t.Fatalf("span %q not parented: %d", ev.Name, ev.ParentID)
		}
		if ev.Kind == trace.KindSpanEnd {
			ends = append(ends, ev.Name+" "+ev.Detail)
		}
	}
	want := []string{"verify.structural 0 violations", "verify.type 1 violations"}
	if diff := pretty.Diff(ends, want); len(diff) > 0 {
		t.Fatalf("unexpected spans: %v", diff)
	}
}
