package main

// clickPlayer is the small interface both the oto-backed and headless
// click players implement, matching the teacher's pattern of a narrow
// interface (VideoOutput, here implicit) with a real backend under
// `!headless` and a no-op stand-in under `headless`.
type clickPlayer interface {
	Start()
	Stop()
	Close()

	// Click triggers a short click to be rendered on the next few reads of
	// the audio buffer. Safe to call from any goroutine; must never block.
	Click()
}
