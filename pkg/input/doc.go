// Package input provides a pointer-driven drag source with inertial release.
//
// A [Proxy] keeps its own absolute position, decoupled from anything drawn on
// screen. Pointer moves while pressed translate the proxy and emit drag moves;
// releasing the pointer starts a throw whose velocity decays exponentially
// and is advanced by [Proxy.Step] from the host's frame clock.
//
//	tracker := pan.NewTracker(engine)
//	proxy := input.NewProxy(tracker, input.DefaultInertia())
//	tracker.SetProxy(proxy)
//
//	proxy.Press(x, y, now)
//	proxy.Move(x+12, y, now.Add(16*time.Millisecond))
//	proxy.Release(now.Add(32 * time.Millisecond))
//	for proxy.Throwing() {
//	    proxy.Step(16 * time.Millisecond)
//	}
//
// Scroll input bypasses the proxy and goes straight to the tracker, which
// calls [Proxy.Resync] so a later throw continues from the scrolled position.
package input
