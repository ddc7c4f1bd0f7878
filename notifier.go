package wr

// Notifier receives frame events from an API. NewFrameReady is called on
// the submitting goroutine after a scene has been published; it must not
// block.
type Notifier interface {
	NewFrameReady(pipeline PipelineID, epoch Epoch)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(pipeline PipelineID, epoch Epoch)

// NewFrameReady calls f(pipeline, epoch).
func (f NotifierFunc) NewFrameReady(pipeline PipelineID, epoch Epoch) {
	f(pipeline, epoch)
}

type nopNotifier struct{}

func (nopNotifier) NewFrameReady(PipelineID, Epoch) {}
