package analysis_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"loupe/internal/analysis"
	"loupe/internal/minilang"
	"loupe/internal/sem"
)

const squareSrc = "fun square(x: Int): Int {\n  return x * x\n}\n"

func newSquareAnalyzer(t *testing.T) *analysis.Analyzer {
	t.Helper()
	fe := minilang.NewFrontend(nil)
	snap, err := analysis.NewSnapshot("square.mini", []byte(squareSrc), nil, fe)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	return analysis.NewAnalyzer(snap, fe, nil, nil)
}

// После вставки символа запрос по новому xx промахивается, а по
// нетронутому первому x всё ещё отвечает.
func TestTypeAtAfterEdit(t *testing.T) {
	a := newSquareAnalyzer(t)
	live := []byte("fun square(x: Int): Int {\n  return x * xx\n}\n")

	second := uint32(strings.Index(string(live), "xx"))
	if _, err := a.TypeAt(live, second); !analysis.IsNotFound(err) {
		t.Errorf("TypeAt(xx) err = %v, want NotFound", err)
	}

	first := uint32(strings.Index(string(live), "x * xx"))
	ty, err := a.TypeAt(live, first)
	if err != nil {
		t.Fatalf("TypeAt(x): %v", err)
	}
	if ty != "Int" {
		t.Errorf("type = %q, want Int", ty)
	}
}

func TestTypeAtUnedited(t *testing.T) {
	a := newSquareAnalyzer(t)
	live := []byte(squareSrc)

	off := uint32(strings.Index(squareSrc, "x * x"))
	ty, err := a.TypeAt(live, off)
	if err != nil {
		t.Fatalf("TypeAt: %v", err)
	}
	if ty != "Int" {
		t.Errorf("type = %q, want Int", ty)
	}
}

// Курсор на хвостовом поле цепочки отвечает типом всей цепочки.
func TestTypeAtSelectorChain(t *testing.T) {
	src := "record User {\n  name: String\n}\nfun who(u: User): String {\n  return u.name\n}\n"
	fe := minilang.NewFrontend(nil)
	snap, err := analysis.NewSnapshot("who.mini", []byte(src), nil, fe)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	a := analysis.NewAnalyzer(snap, fe, nil, nil)

	cursor := uint32(strings.Index(src, "u.name") + len("u.nam"))
	ty, err := a.TypeAt([]byte(src), cursor)
	if err != nil {
		t.Fatalf("TypeAt: %v", err)
	}
	if ty != "String" {
		t.Errorf("type = %q, want String", ty)
	}
}

func TestReferenceAtContainsCursor(t *testing.T) {
	a := newSquareAnalyzer(t)
	live := []byte(squareSrc)

	cursor := uint32(strings.Index(squareSrc, "x * x"))
	ref, err := a.ReferenceAt(live, cursor)
	if err != nil {
		t.Fatalf("ReferenceAt: %v", err)
	}
	if !ref.Span.Contains(cursor) {
		t.Errorf("reference span %s does not contain cursor %d", ref.Span, cursor)
	}
	if ref.Symbol.Kind != sem.SymParam || ref.Symbol.Name != "x" {
		t.Errorf("resolved to %+v, want param x", ref.Symbol)
	}
}

func TestReferenceAtAfterEdit(t *testing.T) {
	a := newSquareAnalyzer(t)
	live := []byte("fun square(x: Int): Int {\n  return x * xx\n}\n")

	second := uint32(strings.Index(string(live), "xx"))
	if _, err := a.ReferenceAt(live, second); !analysis.IsNotFound(err) {
		t.Errorf("err = %v, want NotFound", err)
	}
}

func TestScopeAtInnermost(t *testing.T) {
	a := newSquareAnalyzer(t)
	live := []byte(squareSrc)

	outer, err := a.ScopeAt(live, 0)
	if err != nil {
		t.Fatalf("ScopeAt(0): %v", err)
	}
	inner, err := a.ScopeAt(live, uint32(strings.Index(squareSrc, "return")))
	if err != nil {
		t.Fatalf("ScopeAt(return): %v", err)
	}
	if inner == outer {
		t.Error("cursor inside body resolved to the outer scope")
	}
}

func TestScopeAtOutOfBounds(t *testing.T) {
	a := newSquareAnalyzer(t)
	_, err := a.ScopeAt([]byte(squareSrc), uint32(len(squareSrc)+10))
	if !analysis.IsNotFound(err) {
		t.Errorf("err = %v, want NotFound", err)
	}
}

func TestDescribePosition(t *testing.T) {
	a := newSquareAnalyzer(t)
	live := []byte(squareSrc)

	off := uint32(strings.Index(squareSrc, "return"))
	got := a.DescribePosition(live, off)
	if got != "square.mini 2:3" {
		t.Errorf("DescribePosition = %q, want %q", got, "square.mini 2:3")
	}
}

// Колонка считается в UTF-16 единицах: суррогатная пара стоит двух.
func TestDescribePositionUTF16(t *testing.T) {
	src := "fun f() {\n  val a = \"𐍈x\"\n}\n"
	fe := minilang.NewFrontend(nil)
	snap, err := analysis.NewSnapshot("f.mini", []byte(src), nil, fe)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	a := analysis.NewAnalyzer(snap, fe, nil, nil)

	off := uint32(strings.Index(src, "x\""))
	got := a.DescribePosition([]byte(src), off)
	if got != "f.mini 2:13" {
		t.Errorf("DescribePosition = %q, want %q", got, "f.mini 2:13")
	}
}

// Без правок пере-разбор остаётся в пределах объемлющей декларации, а не
// расползается на весь файл.
func TestReparseStaysWithinDecl(t *testing.T) {
	src := "fun one(a: Int): Int {\n  return a\n}\nfun two(b: Int): Int {\n  return b\n}\n"
	fe := minilang.NewFrontend(nil)
	snap, err := analysis.NewSnapshot("two.mini", []byte(src), nil, fe)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	var traced []string
	a := analysis.NewAnalyzer(snap, fe, nil, func(format string, args ...any) {
		traced = append(traced, fmt.Sprintf(format, args...))
	})

	cursor := uint32(strings.Index(src, "return b") + len("return "))
	ty, err := a.TypeAt([]byte(src), cursor)
	if err != nil {
		t.Fatalf("TypeAt: %v", err)
	}
	if ty != "Int" {
		t.Errorf("type = %q, want Int", ty)
	}

	declStart := strings.Index(src, "fun two")
	wantPrefix := fmt.Sprintf("re-parsing range [%d,", declStart)
	for _, line := range traced {
		if !strings.Contains(line, "re-parsing range") {
			continue
		}
		if !strings.Contains(line, wantPrefix) {
			t.Fatalf("re-parse = %q, want range starting at %d", line, declStart)
		}
		return
	}
	t.Fatal("no re-parse traced")
}

func TestLineBefore(t *testing.T) {
	a := newSquareAnalyzer(t)
	live := []byte(squareSrc)

	off := uint32(strings.Index(squareSrc, "x * x"))
	if got := a.LineBefore(live, off); got != "  return " {
		t.Errorf("LineBefore = %q, want %q", got, "  return ")
	}
	if got := a.LineBefore(live, 0); got != "" {
		t.Errorf("LineBefore(0) = %q, want empty", got)
	}
}

// Сбой чекера — жёсткая ошибка, не NotFound.
type faultyFrontend struct {
	*minilang.Frontend
}

var errCheckerFault = errors.New("checker fault")

func (faultyFrontend) CheckFragment(sem.Fragment) (*sem.Facts, error) {
	return nil, errCheckerFault
}

func TestCheckerFaultPropagates(t *testing.T) {
	inner := minilang.NewFrontend(nil)
	snap, err := analysis.NewSnapshot("square.mini", []byte(squareSrc), nil, inner)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	a := analysis.NewAnalyzer(snap, faultyFrontend{inner}, nil, nil)

	off := uint32(strings.Index(squareSrc, "x * x"))
	_, err = a.TypeAt([]byte(squareSrc), off)
	if !errors.Is(err, errCheckerFault) {
		t.Fatalf("err = %v, want checker fault", err)
	}
	if analysis.IsNotFound(err) {
		t.Error("hard fault must not look like NotFound")
	}
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	fe := minilang.NewFrontend(nil)
	sess, err := analysis.NewSession("square.mini", []byte(squareSrc), nil, fe, nil, nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	live := "fun square(x: Int): Int {\n  return x * xx\n}\n"
	if err := sess.Update(ctx, []byte(live)); err != nil {
		t.Fatalf("Update: %v", err)
	}

	second := uint32(strings.Index(live, "xx"))
	if _, err := sess.TypeAt(ctx, second); !analysis.IsNotFound(err) {
		t.Errorf("TypeAt(xx) err = %v, want NotFound", err)
	}

	// Полный повторный проход делает xx снова одиночным x.
	if err := sess.Update(ctx, []byte(squareSrc)); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := sess.Reanalyze(ctx); err != nil {
		t.Fatalf("Reanalyze: %v", err)
	}
	off := uint32(strings.Index(squareSrc, "x * x"))
	ty, err := sess.TypeAt(ctx, off)
	if err != nil {
		t.Fatalf("TypeAt: %v", err)
	}
	if ty != "Int" {
		t.Errorf("type = %q, want Int", ty)
	}
}
