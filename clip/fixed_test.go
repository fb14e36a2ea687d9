package clip

import (
	"fmt"
	"math"
	"testing"

	"github.com/tdewolff/test"
	"golang.org/x/image/math/fixed"
)

func TestNormalizeDivision(t *testing.T) {
	for v := int32(math.MinInt16); v <= math.MaxInt16; v++ {
		if NormalizeDivision(v) != int16(v) {
			t.Fatalf("NormalizeDivision(%d) = %d", v, NormalizeDivision(v))
		}
	}

	var tts = []struct {
		v int32
		r int16
	}{
		{32768, -32768},
		{32769, -32767},
		{65535, -1},
		{65536, 0},
		{65537, 1},
		{-32769, 32767},
		{-65536, 0},
		{-65537, -1},
		{math.MaxInt32, -1},
		{math.MinInt32, 0},
	}
	for i, tt := range tts {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			test.T(t, NormalizeDivision(tt.v), tt.r)
			test.T(t, NormalizeDivision(tt.v+65536), tt.r)
		})
	}
}

func TestExtractHighBits(t *testing.T) {
	var tts = []struct {
		lo, hi int16
	}{
		{0, 0},
		{1, 0},
		{-1, 0},
		{0, 1},
		{0, -1},
		{-1, -1},
		{32767, -32768},
		{-32768, 32767},
		{12, -7},
	}
	for i, tt := range tts {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			v := int32(tt.lo) + int32(tt.hi)<<16
			test.T(t, NormalizeDivision(v), tt.lo)
			test.T(t, ExtractHighBits(v), tt.hi)
		})
	}
}

func TestWinding(t *testing.T) {
	var w Winding
	test.T(t, w.Subject(), 0)
	test.T(t, w.Clip(), 0)

	w.Add(1, 0)
	w.Add(1, 0)
	w.Add(0, -1)
	test.T(t, w.Subject(), 2)
	test.T(t, w.Clip(), -1)
	test.String(t, w.String(), "(2,-1)")

	// carries between the halves cancel out
	w = 0
	for i := 0; i < 1000; i++ {
		w.Add(-1, 1)
	}
	for i := 0; i < 997; i++ {
		w.Add(1, -1)
	}
	test.T(t, w.Subject(), -3)
	test.T(t, w.Clip(), 3)

	var u Winding
	u.Add(3, 4)
	w += u
	test.T(t, w.Subject(), 0)
	test.T(t, w.Clip(), 7)
}

func TestStOperator(t *testing.T) {
	var tts = []struct {
		mode                      ClipMode
		none, clip, subject, both bool
	}{
		{Intersection, false, false, false, true},
		{Union, false, true, true, true},
		{Difference, false, false, true, false},
		{Xor, false, true, true, false},
	}
	for _, tt := range tts {
		t.Run(tt.mode.String(), func(t *testing.T) {
			op := stOperator[tt.mode]
			test.T(t, op(false, false), tt.none)
			test.T(t, op(false, true), tt.clip)
			test.T(t, op(true, false), tt.subject)
			test.T(t, op(true, true), tt.both)
		})
	}
}

func TestFillRule(t *testing.T) {
	var tts = []struct {
		fillRule          FillRule
		m2, m1, z, p1, p2 bool
	}{
		{NonZero, true, true, false, true, true},
		{EvenOdd, false, true, false, true, false},
		{Positive, false, false, false, true, true},
		{Negative, true, true, false, false, false},
	}
	for _, tt := range tts {
		t.Run(tt.fillRule.String(), func(t *testing.T) {
			test.T(t, tt.fillRule.Fills(-2), tt.m2)
			test.T(t, tt.fillRule.Fills(-1), tt.m1)
			test.T(t, tt.fillRule.Fills(0), tt.z)
			test.T(t, tt.fillRule.Fills(1), tt.p1)
			test.T(t, tt.fillRule.Fills(2), tt.p2)

			fillRule, err := ParseFillRule(tt.fillRule.String())
			test.Error(t, err)
			test.T(t, fillRule, tt.fillRule)
		})
	}

	_, err := ParseFillRule("winding")
	test.That(t, err != nil)
}

func TestParseClipMode(t *testing.T) {
	var tts = []struct {
		s    string
		mode ClipMode
	}{
		{"Intersection", Intersection},
		{"and", Intersection},
		{"union", Union},
		{"or", Union},
		{"Difference", Difference},
		{"not", Difference},
		{"xor", Xor},
	}
	for _, tt := range tts {
		t.Run(tt.s, func(t *testing.T) {
			mode, err := ParseClipMode(tt.s)
			test.Error(t, err)
			test.T(t, mode, tt.mode)
		})
	}

	_, err := ParseClipMode("minus")
	test.T(t, err != nil, true)
	test.String(t, ClipMode(7).String(), "ClipMode(7)")
}

func TestFixed(t *testing.T) {
	p := Pt(1.5, -0.25)
	test.T(t, p.X, fixed.Int52_12(6144))
	test.T(t, p.Y, fixed.Int52_12(-1024))
	x, y := FromFixed(p)
	test.Float(t, x, 1.5)
	test.Float(t, y, -0.25)
	test.String(t, pointString(p), "[1.5; -0.25]")

	// values are rounded to the grid
	x, _ = FromFixed(Pt(0.1, 0.0))
	test.Float(t, x, 410.0/4096.0)

	test.That(t, inRange(Pt(131072.0, -131072.0)))
	test.That(t, !inRange(Pt(131072.5, 0.0)))
}
