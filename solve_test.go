package panda

import (
	"math"
	"sync"
	"testing"

	"go.viam.com/test"
	"zappem.net/pub/math/geom"
)

var (
	readyJoints = Joints{0, 0.3, 0, -2.0, 0, 2.0, 0.785}
	identity    = geom.M(1, 0, 0, 0, 1, 0, 0, 0, 1)
)

func validCount(qs [NumCases]Joints) int {
	n := 0
	for _, q := range qs {
		if q.IsValid() {
			n++
		}
	}
	return n
}

func TestSolveReady(t *testing.T) {
	p := ForwardPose(readyJoints)
	qs := Solve(p, readyJoints[6], readyJoints)
	test.That(t, validCount(qs), test.ShouldBeGreaterThanOrEqualTo, 1)

	got := qs[CaseElbowFarShoulderUp]
	test.That(t, got.IsValid(), test.ShouldBeTrue)
	for i := range got {
		test.That(t, got[i], test.ShouldAlmostEqual, readyJoints[i], 1e-9)
	}
	test.That(t, CaseOf(readyJoints), test.ShouldEqual, CaseElbowFarShoulderUp)
}

func TestSolveDeterministic(t *testing.T) {
	p := ForwardPose(Joints{-0.5, 0.2, 0.4, -2.4, -0.3, 2.6, 1.2})
	a := Solve(p, 1.2, Joints{})
	b := Solve(p, 1.2, Joints{})
	for i := range a {
		test.That(t, a[i].IsValid(), test.ShouldEqual, b[i].IsValid())
		if a[i].IsValid() {
			test.That(t, a[i], test.ShouldResemble, b[i])
		}
	}
	test.That(t, a[CaseElbowFarShoulderUp].IsValid(), test.ShouldBeTrue)
	test.That(t, a[CaseElbowFarShoulderFlip].IsValid(), test.ShouldBeTrue)
}

func TestSolveCCMatchesSolve(t *testing.T) {
	for _, q := range []Joints{
		readyJoints,
		{-0.5, 0.2, 0.4, -2.4, -0.3, 2.6, 1.2},
		{0.1, -0.4, 0.2, -2.1, 0.1, 1.8, 0.6},
		{0.3, 0.5, -0.2, -1.8, 0.4, 1.5, -0.3},
	} {
		p := ForwardPose(q)
		qs := Solve(p, q[6], q)
		for k, s := range qs {
			if !s.IsValid() {
				continue
			}
			test.That(t, CaseOf(s), test.ShouldEqual, Case(k))
			test.That(t, SolveCC(p, q[6], s), test.ShouldResemble, s)
		}
	}
}

func TestSolveCCNoSubstitution(t *testing.T) {
	// Only the elbow-far/shoulder-up case reaches the ready pose with
	// this q7, so a reference in the flipped case gets nothing.
	p := ForwardPose(readyJoints)
	qs := Solve(p, readyJoints[6], readyJoints)
	test.That(t, qs[CaseElbowFarShoulderFlip].IsValid(), test.ShouldBeFalse)

	ref := Joints{0, -0.3, 0, -2.2, 0, 2.0, 0.785}
	test.That(t, CaseOf(ref), test.ShouldEqual, CaseElbowFarShoulderFlip)
	test.That(t, SolveCC(p, readyJoints[6], ref).IsValid(), test.ShouldBeFalse)
	test.That(t, SolveCC(p, readyJoints[6], readyJoints).IsValid(), test.ShouldBeTrue)
}

func TestSolveCCRejectsBadReference(t *testing.T) {
	p := ForwardPose(readyJoints)
	ref := readyJoints
	ref[3] = 0.5
	test.That(t, SolveCC(p, readyJoints[6], ref).IsValid(), test.ShouldBeFalse)
	ref[3] = math.NaN()
	test.That(t, SolveCC(p, readyJoints[6], ref).IsValid(), test.ShouldBeFalse)
}

func TestSolveUnreachable(t *testing.T) {
	down := geom.M(1, 0, 0, 0, -1, 0, 0, 0, -1)
	for _, q7 := range []float64{-2, -1, 0, 0.785, 1.5, 2.5} {
		far := Solve(Pose{M: down, V: geom.V(1.2, 0, 0.3)}, q7, Joints{})
		test.That(t, validCount(far), test.ShouldEqual, 0)

		origin := Solve(Pose{M: identity, V: geom.V(0, 0, 0)}, q7, Joints{})
		test.That(t, validCount(origin), test.ShouldEqual, 0)
	}

	for _, q := range Solve(Pose{M: identity, V: geom.V(0, 0, 2)}, 0, Joints{}) {
		for _, a := range q {
			test.That(t, math.IsNaN(a), test.ShouldBeTrue)
		}
	}
}

func TestSolveFullyExtended(t *testing.T) {
	// Straight up, identity basis, just inside the shoulder-wrist
	// reach for q7 = 0.
	l := 0.9999 * MaxReach
	h := D1 + math.Sqrt(l*l-A7*A7) + D7e
	p := Pose{M: identity, V: geom.V(0, 0, h)}
	qs := Solve(p, 0, Joints{})
	n := validCount(qs)
	test.That(t, n, test.ShouldBeGreaterThanOrEqualTo, 1)
	test.That(t, n, test.ShouldBeLessThanOrEqualTo, 2)
	for _, q := range qs {
		if q.IsValid() {
			test.That(t, poseErr(ForwardPose(q), p), test.ShouldBeLessThan, 1e-9)
		}
	}
}

func TestSolveQ7(t *testing.T) {
	p := ForwardPose(readyJoints)
	a := Solve(p, readyJoints[6], Joints{})
	b := Solve(p, readyJoints[6]+2*math.Pi, Joints{})
	test.That(t, b[CaseElbowFarShoulderUp].IsValid(), test.ShouldBeTrue)
	for i := range a[CaseElbowFarShoulderUp] {
		test.That(t, b[CaseElbowFarShoulderUp][i], test.ShouldAlmostEqual, a[CaseElbowFarShoulderUp][i], 1e-9)
	}

	// J7 cannot reach pi, whichever way it is written.
	for _, q7 := range []float64{math.Pi, -math.Pi, 3 * math.Pi, math.NaN(), math.Inf(1)} {
		test.That(t, validCount(Solve(p, q7, Joints{})), test.ShouldEqual, 0)
	}
}

func TestSelfMotionContinuity(t *testing.T) {
	p := ForwardPose(readyJoints)
	var q7s []float64
	for q7 := 0.0; q7 <= 1.55; q7 += 0.005 {
		q7s = append(q7s, q7)
	}
	qs := SelfMotion(p, CaseElbowFarShoulderUp, q7s, readyJoints)
	test.That(t, qs, test.ShouldHaveLength, len(q7s))
	for i, q := range qs {
		test.That(t, q.IsValid(), test.ShouldBeTrue)
		test.That(t, q[6], test.ShouldAlmostEqual, q7s[i], 1e-12)
		test.That(t, poseErr(ForwardPose(q), p), test.ShouldBeLessThan, 1e-9)
		if i == 0 {
			continue
		}
		for j := range q {
			test.That(t, math.Abs(q[j]-qs[i-1][j]), test.ShouldBeLessThan, 0.1)
		}
	}
}

func TestSolveConcurrent(t *testing.T) {
	p := ForwardPose(readyJoints)
	want := Solve(p, readyJoints[6], readyJoints)
	var wg sync.WaitGroup
	errs := make(chan [NumCases]Joints, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < 100; k++ {
				if got := Solve(p, readyJoints[6], readyJoints); got[2] != want[2] {
					errs <- got
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Errorf("concurrent solve diverged: %v", got)
	}
}

func TestClosest(t *testing.T) {
	p := ForwardPose(Joints{-0.5, 0.2, 0.4, -2.4, -0.3, 2.6, 1.2})
	qs := Solve(p, 1.2, Joints{})
	i, err := Closest(Joints{-0.4, 0.2, 0.4, -2.4, -0.3, 2.6, 1.2}, qs[:])
	test.That(t, err, test.ShouldBeNil)
	test.That(t, i, test.ShouldEqual, int(CaseElbowFarShoulderUp))

	_, err = Closest(Joints{}, []Joints{Invalid, Invalid})
	test.That(t, err, test.ShouldBeError, ErrNoSolution)
}

func TestCase(t *testing.T) {
	for c := Case(0); c < NumCases; c++ {
		test.That(t, NewCase(c.Elbow(), c.Shoulder()), test.ShouldEqual, c)
	}
	test.That(t, CaseElbowNearShoulderFlip.String(), test.ShouldEqual, "elbow-near/shoulder-flip")
	test.That(t, Case(9).String(), test.ShouldEqual, "Case(9)")
}

func BenchmarkSolve(b *testing.B) {
	p := ForwardPose(readyJoints)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Solve(p, readyJoints[6], readyJoints)
	}
}

func BenchmarkSolveCC(b *testing.B) {
	p := ForwardPose(readyJoints)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		SolveCC(p, readyJoints[6], readyJoints)
	}
}
