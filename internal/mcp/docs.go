package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `feedback-widget collects a thumbs-up/thumbs-down rating and an optional comment for an AI run.

Each run id has one draft. The first rating creates the feedback record on the remote service;
later ratings update it. Comments stay local until submit.

Default workflow:
1) rate_run(run_id, rating) as soon as the user reacts (helpful | not_helpful).
2) comment_run(run_id, comment) to attach free text.
3) submit_feedback(run_id) to finalize. Submitting without a rating or comment is rejected.
4) get_feedback_draft(run_id) shows the current draft and record state at any time.

A failed submit keeps the draft; call submit_feedback again to retry.
After a successful submit the run is closed; forget_run starts a fresh draft.

Docs:
- feedback://docs/tools
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "feedback://docs/tools",
		Name:        "docs_tools",
		Title:       "Feedback tools",
		Description: "Tool reference, record states, and error codes.",
		Content: `# Feedback tools

## Tools

- ` + "`rate_run`" + ` sets the draft rating. The first rating for a run creates the remote record exactly once, even when several ratings race.
- ` + "`comment_run`" + ` replaces the draft comment. Nothing is sent.
- ` + "`submit_feedback`" + ` optionally applies a rating and comment, then finalizes. Returns the feedback id.
- ` + "`get_feedback_draft`" + ` returns the draft: rating, comment, submitted, submitting, last_error, feedback_id, record_state.
- ` + "`forget_run`" + ` drops the widget for a run.

## Record states

- ` + "`unlinked`" + `: no remote record yet.
- ` + "`creating`" + `: the create request is in flight. Concurrent callers join it.
- ` + "`linked`" + `: the record exists; changes become updates.

## Error codes

| code | meaning |
|------|---------|
| MISSING_RUN_ID | run_id was blank |
| INVALID_RATING | rating was not helpful or not_helpful |
| EMPTY_FEEDBACK | submit with neither rating nor comment |
| ALREADY_SUBMITTED | the run was finalized |
| SUBMIT_IN_PROGRESS | another submit for the run is running |
| REMOTE_ERROR | the feedback service rejected the request; the draft is kept |
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
