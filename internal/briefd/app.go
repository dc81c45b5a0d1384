package briefd

import (
	"context"

	"github.com/thrust-io/briefd/pkg/app"
)

const appDescription = `briefd - document intelligence for strategy consultants

The briefd server turns source documents into concise, citable briefs:

  - PDF ingestion with token-window chunking and parallel summarization
  - Executive summaries and presentation-ready slide bullets
  - Conversational summary editing with revision history
  - Retrieval-augmented Q&A over project and account knowledgebases`

// NewApp creates the briefd application.
func NewApp() *app.App {
	opts := NewOptions()

	return app.NewApp(
		app.WithName(Name),
		app.WithShortDescription("Document intelligence backend"),
		app.WithDescription(appDescription),
		app.WithOptions(opts),
		app.WithRunFunc(func() error {
			return Run(opts)
		}),
	)
}

// Run builds and runs the server with the given options.
func Run(opts *Options) error {
	ctx := context.Background()

	server, err := NewServer(ctx, opts)
	if err != nil {
		return err
	}
	return server.Run(ctx)
}
