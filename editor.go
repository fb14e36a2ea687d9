package floorplan

import (
	"fmt"
	"log/slog"

	"github.com/tdewolff/floorplan/clip"
	"github.com/tdewolff/floorplan/transact"
)

// Editor is the context that requests run in. It ties a document to its undo history and its topology coordinator, and is passed explicitly to every request.
type Editor struct {
	Doc      *Document
	History  *transact.Manager
	Topology *Coordinator
	Logger   *slog.Logger
	Options  clip.Options
}

// NewEditor returns an editor over doc. The history is configured by cfg and opts, where opts take precedence. A nil logger uses slog.Default.
func NewEditor(doc *Document, cfg Config, logger *slog.Logger, opts ...transact.Option) (*Editor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	clipOpts, err := cfg.ClipOptions()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts = append([]transact.Option{
		transact.WithLogger(logger),
		transact.WithMaxUndo(cfg.MaxUndo),
		transact.WithCompose(cfg.Compose),
	}, opts...)
	return &Editor{
		Doc:      doc,
		History:  transact.NewManager(opts...),
		Topology: NewCoordinator(doc, clipOpts, logger),
		Logger:   logger,
		Options:  clipOpts,
	}, nil
}

// Commit commits a request as its own undo step.
func (ed *Editor) Commit(req *transact.Request) error {
	return ed.History.Commit(req)
}

// Apply commits the requests in a session, forming one undo step. If any request fails, the requests before it are rolled back and the error is returned.
func (ed *Editor) Apply(name string, reqs ...*transact.Request) error {
	session, err := ed.History.StartSession(name)
	if err != nil {
		return err
	}
	for _, req := range reqs {
		if err := session.Apply(req); err != nil {
			return fmt.Errorf("%s: %w", req.Type(), err)
		}
	}
	return session.Commit()
}

// Undo reverts the last undo step.
func (ed *Editor) Undo() error {
	return ed.History.Undo()
}

// Redo reapplies the last undone step.
func (ed *Editor) Redo() error {
	return ed.History.Redo()
}
