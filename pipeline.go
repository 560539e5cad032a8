package cropview

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Pipeline takes one image at a time through validate, read, sniff, decode,
// bounds check and crop. Ready and Failed are kept until Reset.
//
// A Pipeline is safe to observe from other goroutines while Process runs,
// but only one Process call is accepted per run. Independent files that must
// be processed concurrently need independent pipelines.
type Pipeline struct {
	limits        Limits
	quality       int
	decodeTimeout time.Duration
	decoder       Decoder
	log           *zap.Logger
	observers     []func(Transition)

	mu        sync.Mutex
	state     State
	gen       uint64
	runID     string
	result    *CropResult
	err       *Error
	dismissed bool
}

// New creates an Idle pipeline with default limits, JPEG quality 95, a 30
// second decode timeout and the native decoder.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		limits:        DefaultLimits(),
		quality:       DefaultQuality,
		decodeTimeout: DefaultDecodeTimeout,
		decoder:       NativeDecoder{},
		log:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type run struct {
	gen uint64
	id  string
	log *zap.Logger
}

// Process runs src through the pipeline and returns the preview, or the
// *Error the run failed with. The same outcome is kept in Snapshot until
// Reset.
//
// Process returns ErrBusy without touching state unless the pipeline is
// Idle. If ctx is done mid-run the run is dropped, the pipeline goes back to
// Idle and ctx.Err() is returned.
func (p *Pipeline) Process(ctx context.Context, src SourceFile) (*CropResult, error) {
	r, err := p.begin(src)
	if err != nil {
		return nil, err
	}

	if err := Validate(src, p.limits); err != nil {
		return nil, p.fail(r, err)
	}

	if !p.advance(r, Reading) {
		return nil, ErrAborted
	}
	buf, err := Load(ctx, src)
	if err != nil {
		return nil, p.fail(r, err)
	}

	if !p.advance(r, Sniffing) {
		return nil, ErrAborted
	}
	sig := Sniff(buf)
	contentType := sig.ContentType()
	if contentType == "" {
		contentType = src.Type
	}
	r.log.Debug("sniffed", zap.Stringer("signature", sig), zap.String("declared", src.Type))

	if !p.advance(r, Decoding) {
		return nil, ErrAborted
	}
	img, err := decode(ctx, p.decoder, buf, sig, contentType, p.decodeTimeout, p.limits)
	if err != nil {
		return nil, p.fail(r, err)
	}

	if !p.advance(r, BoundsChecking) {
		img.Release()
		return nil, ErrAborted
	}
	height, err := CheckBounds(img.Width, img.Height, p.limits)
	if err != nil {
		img.Release()
		return nil, p.fail(r, err)
	}

	if !p.advance(r, Cropping) {
		img.Release()
		return nil, ErrAborted
	}
	res, err := Crop(img, height, p.quality)
	if err != nil {
		return nil, p.fail(r, err)
	}
	return p.finish(r, res)
}

// Reset returns the pipeline to Idle, dropping any result or error. A run in
// progress is abandoned and can no longer change state.
func (p *Pipeline) Reset() {
	p.mu.Lock()
	from := p.state
	id := p.runID
	p.gen++
	p.state = Idle
	p.runID = ""
	p.result = nil
	p.err = nil
	p.dismissed = false
	p.mu.Unlock()

	if from != Idle {
		p.log.Debug("reset", zap.String("run", id), zap.Stringer("from", from))
		p.notify(Transition{RunID: id, From: from, To: Idle})
	}
}

// DismissError hides the current error from Snapshot. The state is left as
// is.
func (p *Pipeline) DismissError() {
	p.mu.Lock()
	p.dismissed = true
	p.mu.Unlock()
}

// State returns the current state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pipeline) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := Snapshot{
		State:      p.state,
		Result:     p.result,
		Processing: p.state != Idle && !p.state.Terminal(),
	}
	if !p.dismissed {
		s.Err = p.err
	}
	return s
}

func (p *Pipeline) begin(src SourceFile) (*run, error) {
	p.mu.Lock()
	if p.state != Idle {
		p.mu.Unlock()
		return nil, ErrBusy
	}
	p.gen++
	r := &run{gen: p.gen, id: uuid.NewString()}
	r.log = p.log.With(zap.String("run", r.id), zap.String("file", src.Name))
	p.runID = r.id
	p.state = Validating
	p.mu.Unlock()

	r.log.Debug("transition", zap.Stringer("from", Idle), zap.Stringer("to", Validating))
	p.notify(Transition{RunID: r.id, From: Idle, To: Validating})
	return r, nil
}

// advance moves r forward to the next stage. It reports false if r has been
// superseded by Reset or cancellation.
func (p *Pipeline) advance(r *run, to State) bool {
	p.mu.Lock()
	if p.gen != r.gen {
		p.mu.Unlock()
		return false
	}
	from := p.state
	p.state = to
	p.mu.Unlock()

	r.log.Debug("transition", zap.Stringer("from", from), zap.Stringer("to", to))
	p.notify(Transition{RunID: r.id, From: from, To: to})
	return true
}

// fail ends r with err. Context errors drop the run back to Idle instead of
// failing it.
func (p *Pipeline) fail(r *run, err error) error {
	var perr *Error
	if !errors.As(err, &perr) {
		p.abandon(r, err)
		return err
	}

	p.mu.Lock()
	if p.gen != r.gen {
		p.mu.Unlock()
		return ErrAborted
	}
	from := p.state
	p.state = Failed
	p.err = perr
	p.result = nil
	p.dismissed = false
	p.mu.Unlock()

	r.log.Warn("failed",
		zap.Stringer("stage", from),
		zap.Stringer("kind", perr.Kind),
		zap.Error(err))
	p.notify(Transition{RunID: r.id, From: from, To: Failed, Err: perr})
	return perr
}

func (p *Pipeline) abandon(r *run, cause error) {
	p.mu.Lock()
	if p.gen != r.gen {
		p.mu.Unlock()
		return
	}
	from := p.state
	p.gen++
	p.state = Idle
	p.runID = ""
	p.mu.Unlock()

	r.log.Info("abandoned", zap.Stringer("stage", from), zap.Error(cause))
	p.notify(Transition{RunID: r.id, From: from, To: Idle})
}

func (p *Pipeline) finish(r *run, res *CropResult) (*CropResult, error) {
	p.mu.Lock()
	if p.gen != r.gen {
		p.mu.Unlock()
		return nil, ErrAborted
	}
	from := p.state
	p.state = Ready
	p.result = res
	p.err = nil
	p.mu.Unlock()

	r.log.Info("ready",
		zap.Int("width", res.Width),
		zap.Int("height", res.Height),
		zap.Int("bytes", res.Size))
	p.notify(Transition{RunID: r.id, From: from, To: Ready})
	return res, nil
}

func (p *Pipeline) notify(t Transition) {
	for _, fn := range p.observers {
		fn(t)
	}
}
