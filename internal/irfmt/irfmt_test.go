package irfmt_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kr/pretty"

	"llvet/internal/ir"
	"llvet/internal/irfmt"
	"llvet/internal/parser"
	"llvet/internal/source"
	"llvet/internal/types"
)

const corpus = `source_filename = "rt.c"
target datalayout = "e-m:e-i64:64"
target triple = "x86_64-unknown-linux-gnu"

%struct.pair = type { i32, ptr }
%opaque = type opaque

$cd = comdat any

@g = global i32 7, align 4
@s = private unnamed_addr constant [4 x i8] c"ab\0A\00", align 1
@ext = external global ptr
@arr = internal global [2 x i32] [i32 1, i32 2]
@pr = global %struct.pair { i32 1, ptr @g }, comdat($cd)
@ce = global ptr getelementptr inbounds (i8, ptr @g, i64 4)
@pi = global i64 ptrtoint (ptr @g to i64)
@al = alias i32, ptr @g

declare i32 @printf(ptr, ...)

define internal fastcc i32 @add(i32 %a, i32 noundef %b) #0 {
entry:
  %sum = add nsw i32 %a, %b
  %c = icmp sgt i32 %sum, 0
  br i1 %c, label %pos, label %neg

pos:
  %p = getelementptr inbounds [4 x i8], ptr @s, i64 0, i64 0
  %r = call i32 (ptr, ...) @printf(ptr %p, i32 %sum)
  br label %neg

neg:
  %v = phi i32 [ %sum, %pos ], [ 0, %entry ]
  switch i32 %v, label %done [
    i32 1, label %one
  ]

one:
  br label %done

done:
  %x = load i32, ptr @g, align 4
  store i32 %x, ptr @g, align 4
  %f = sitofp i32 %x to double
  %fm = fadd fast double %f, 1.000000e+00
  %t = fptosi double %fm to i32
  %agg = insertvalue { i32, i32 } undef, i32 %t, 0
  %e = extractvalue { i32, i32 } %agg, 0
  %sel = select i1 %c, i32 %e, i32 %v, !dbg !3
  ret i32 %sel
}

define void @mem(ptr %q) {
  %1 = alloca i64, align 8
  %2 = atomicrmw add ptr %q, i32 1 seq_cst, align 4
  %3 = cmpxchg ptr %q, i32 0, i32 %2 acquire monotonic, align 4
  fence release
  %4 = load atomic i32, ptr %q acquire, align 4
  store volatile i64 0, ptr %1, align 8
  ret void
}

declare i32 @__gxx_personality_v0(...)

define void @eh() personality ptr @__gxx_personality_v0 {
entry:
  invoke void @mem(ptr null) to label %ok unwind label %lp

ok:
  ret void

lp:
  %l = landingpad { ptr, i32 } cleanup catch ptr null
  resume { ptr, i32 } %l
}

attributes #0 = { nounwind "frame-pointer"="all" }

!llvm.module.flags = !{!0}
!0 = !{i32 1, !"wchar_size", i32 4}
!1 = distinct !DISubprogram(name: "add", line: 3, flags: DIFlagPrototyped | DIFlagDefinition, unit: null)
!3 = !DILocation(line: 4, column: 2, scope: !1)
`

func parse(t *testing.T, name string, src []byte) *ir.Module {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(name, src))
	m, err := parser.ParseModule(types.NewContext(), file, parser.Options{})
	if err != nil {
		t.Fatalf("parse %s: %v", name, err)
	}
	return m
}

func TestRoundTripIsStable(t *testing.T) {
	first := irfmt.Format(parse(t, "corpus.ll", []byte(corpus)), irfmt.Options{})
	second := irfmt.Format(parse(t, "printed.ll", first), irfmt.Options{})
	if !bytes.Equal(first, second) {
		diff := pretty.Diff(strings.Split(string(first), "\n"), strings.Split(string(second), "\n"))
		t.Fatalf("print is not stable under reparse:\n%s", strings.Join(diff, "\n"))
	}
}

func TestPrintsCanonicalLines(t *testing.T) {
	var buf bytes.Buffer
	if err := irfmt.Module(&buf, parse(t, "corpus.ll", []byte(corpus))); err != nil {
		t.Fatalf("Module: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`source_filename = "rt.c"`,
		`%struct.pair = type { i32, ptr }`,
		`%opaque = type opaque`,
		`$cd = comdat any`,
		`@s = private unnamed_addr constant [4 x i8] c"ab\0A\00", align 1`,
		`@ext = external global ptr`,
		`@pr = global %struct.pair { i32 1, ptr @g }, comdat($cd)`,
		`@ce = global ptr getelementptr inbounds (i8, ptr @g, i64 4)`,
		`@al = alias i32, ptr @g`,
		`declare i32 @printf(ptr %0, ...)`,
		`define internal fastcc i32 @add(i32 %a, i32 noundef %b) #0 {`,
		`  %sum = add nsw i32 %a, %b`,
		`  %r = call i32 (ptr, ...) @printf(ptr %p, i32 %sum)`,
		`  %v = phi i32 [ %sum, %pos ], [ 0, %entry ]`,
		"  switch i32 %v, label %done [\n    i32 1, label %one\n  ]",
		`  %sel = select i1 %c, i32 %e, i32 %v, !dbg !3`,
		"define void @mem(ptr %q) {\n0:\n  %1 = alloca i64, align 8",
		`  %3 = cmpxchg ptr %q, i32 0, i32 %2 acquire monotonic, align 4`,
		`  %4 = load atomic i32, ptr %q acquire, align 4`,
		`  invoke void @mem(ptr null) to label %ok unwind label %lp`,
		`  %l = landingpad { ptr, i32 } cleanup catch ptr null`,
		`attributes #0 = { nounwind "frame-pointer"="all" }`,
		`!llvm.module.flags = !{!0}`,
		`!0 = !{i32 1, !"wchar_size", i32 4}`,
		`!1 = distinct !DISubprogram(name: "add", line: 3, flags: DIFlagPrototyped | DIFlagDefinition, unit: null)`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q\n%s", want, out)
		}
	}
}

func TestCallPrintsFullTypeOnlyWhenNeeded(t *testing.T) {
	m := parse(t, "call.ll", []byte(`
declare i32 @g(i32)
define i32 @f() {
  %a = call i32 @g(i32 1)
  %b = call i32 (i32) @g(i32 2)
  ret i32 %b
}`))
	blk := m.Func("f").Entry()
	for i, want := range []string{
		"%a = call i32 @g(i32 1)",
		"%b = call i32 @g(i32 2)",
		"ret i32 %b",
	} {
		if got := irfmt.Instruction(m, blk.Insts[i]); got != want {
			t.Errorf("inst %d: got %q, want %q", i, got, want)
		}
	}
}

func TestQuotedNamesSurviveRoundTrip(t *testing.T) {
	src := "@\"a b\" = global i8 0\ndefine void @\"f\\22\"() {\n\"x y\":\n  ret void\n}\n"
	first := irfmt.Format(parse(t, "q.ll", []byte(src)), irfmt.Options{})
	if !bytes.Contains(first, []byte(`@"a b" = global i8 0`)) || !bytes.Contains(first, []byte(`"x y":`)) {
		t.Fatalf("quoted names lost:\n%s", first)
	}
	second := irfmt.Format(parse(t, "q2.ll", first), irfmt.Options{})
	if !bytes.Equal(first, second) {
		t.Fatalf("quoted names not stable:\n%s\n---\n%s", first, second)
	}
}
