package action

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/datatalk-ai/datatalk/applog"
	"github.com/datatalk-ai/datatalk/dataset"
	"github.com/datatalk-ai/datatalk/db"
	"github.com/datatalk-ai/datatalk/session"
)

// Outcome is what a handler produced: a short report for the
// transcript and, optionally, a synthetic system-authored message.
// A non-empty FollowUp tells the chat shell to append it to the
// conversation and trigger a new assistant turn, so actions are never
// silent to the model.
type Outcome struct {
	Report   string
	FollowUp string
}

// Router maps action names to handlers that mutate the session.
type Router struct {
	sess *session.Session
}

// NewRouter creates a router bound to the session.
func NewRouter(sess *session.Session) *Router {
	return &Router{sess: sess}
}

// Execute runs the named action. Unrecognized names return ok=false
// and are logged but never surfaced — the token comes from a
// probabilistic text generator, and hallucinated actions are expected.
func (r *Router) Execute(ctx context.Context, name, arg string) (Outcome, bool) {
	switch name {
	case "connect":
		return r.connect(ctx, arg), true
	case "analyze":
		return r.analyze(), true
	case "train":
		return Outcome{Report: fmt.Sprintf("Training on %q — coming soon.", strings.TrimSpace(arg))}, true
	case "eval":
		return Outcome{Report: "Model evaluation — coming soon."}, true
	case "export":
		return Outcome{Report: "Model export — coming soon."}, true
	default:
		applog.Event("action", "ignoring unrecognized action %q", name)
		return Outcome{}, false
	}
}

// connect classifies the argument as a file path or a database
// connection string. A path that exists on disk, or that carries a
// recognized tabular extension, takes the file branch; anything else
// is assumed to be a DSN. Failures on either branch become report
// text and leave the session unchanged.
func (r *Router) connect(ctx context.Context, target string) Outcome {
	target = strings.TrimSpace(target)

	if _, err := os.Stat(target); err == nil || dataset.Supported(target) {
		return r.connectFile(target)
	}
	return r.connectDatabase(ctx, target)
}

func (r *Router) connectFile(path string) Outcome {
	ds, err := dataset.Load(path)
	if err != nil {
		applog.Error("action: load %s: %v", path, err)
		return Outcome{
			Report:   fmt.Sprintf("Could not load file: %v", err),
			FollowUp: fmt.Sprintf("[System: loading %s failed: %v. Explain the problem to the user.]", filepath.Base(path), err),
		}
	}

	r.sess.SetData(ds, path, dataset.Profile(ds))
	applog.Event("action", "loaded %s (%d rows, %d cols)", path, ds.NumRows(), ds.NumCols())

	return Outcome{
		Report: fmt.Sprintf("Loaded %s — %d rows × %d columns",
			filepath.Base(path), ds.NumRows(), ds.NumCols()),
		FollowUp: "[System: data loaded. Context updated. Acknowledge and suggest next steps.]",
	}
}

func (r *Router) connectDatabase(ctx context.Context, dsn string) Outcome {
	conn, err := db.Connect(ctx, dsn)
	if err != nil {
		applog.Error("action: connect: %v", err)
		return Outcome{
			Report:   fmt.Sprintf("Connection failed: %v", err),
			FollowUp: fmt.Sprintf("[System: database connection failed: %v. Explain the problem to the user.]", err),
		}
	}

	schema, err := conn.InspectSchema(ctx)
	if err != nil {
		conn.Close()
		applog.Error("action: inspect schema: %v", err)
		return Outcome{
			Report:   fmt.Sprintf("Connection failed: %v", err),
			FollowUp: fmt.Sprintf("[System: schema inspection failed: %v. Explain the problem to the user.]", err),
		}
	}

	r.sess.SetConn(conn, db.FormatSchema(schema))
	applog.Event("action", "connected (%d tables)", len(schema))

	return Outcome{
		Report: fmt.Sprintf("Connected — %d tables, %d total rows",
			len(schema), schema.TotalRows()),
		FollowUp: "[System: database connected. Context updated. Acknowledge and suggest next steps.]",
	}
}

func (r *Router) analyze() Outcome {
	if r.sess.Data == nil {
		return Outcome{Report: "No data loaded yet."}
	}

	suggestions := dataset.SuggestTargets(r.sess.Data)
	hint := ""
	if len(suggestions) > 0 {
		hint = " Likely prediction targets: " + strings.Join(suggestions, ", ")
	}

	return Outcome{
		Report: "Analysis complete." + hint,
		FollowUp: fmt.Sprintf("[System: analysis complete. Target suggestions: %v. "+
			"Guide the user on what to predict.]", suggestions),
	}
}
