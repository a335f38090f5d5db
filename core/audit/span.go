// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path"
	"runtime/trace"
	"strconv"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/rs/zerolog/log"

	"codeberg.org/mustache-l10n/mustache-l10n/core/idgen"
)

// Span represents a request or a template render in flight.
type Span struct {
	// only these fields are set automatically
	task     *trace.Task
	start    time.Time
	duration time.Duration
	metric   *servertiming.Metric

	Kind       SpanKind
	RequestID  string
	Method     string // requests only
	Target     string // URL path or template name
	Locale     string
	StatusCode int // requests only
	Error      error
	Output     []byte // Output is not logged as is; only for render saving

	savedFilename string
}

// SpanKind describes what a span measures.
type SpanKind string

// Span kinds.
const (
	KindRequest SpanKind = "request"
	KindRender  SpanKind = "render"

	renderFilePermissions = 0o600
)

var (
	// SaveRenders indicates whether to save render output to storage.
	SaveRenders bool

	// RenderDirectory is the directory where render output is saved.
	RenderDirectory string
)

// ServerTimingName names the Server-Timing metric of span.
func (span *Span) ServerTimingName() string {
	// base64 without trailing '=' keeps the name a valid token
	return string(span.Kind) + "$" + base64.RawURLEncoding.EncodeToString([]byte(span.Target))
}

// Begin starts timing span. If ctx carries a Server-Timing header, a metric
// is added to it.
func (span *Span) Begin(ctx context.Context) context.Context {
	span.start = time.Now()

	ctx, span.task = trace.NewTask(ctx, "l10n."+string(span.Kind))
	if servertimingContext := servertiming.FromContext(ctx); servertimingContext != nil {
		span.metric = servertimingContext.NewMetric(span.ServerTimingName())
		span.metric.Desc = span.Target
		span.metric.Extra = map[string]string{
			"start": strconv.FormatFloat(float64(span.start.UnixNano())/float64(time.Millisecond), 'f', -1, 64),
		}
	}

	return ctx
}

// End stops timing span. Calling End more than once has no effect.
func (span *Span) End() {
	if span.task != nil {
		span.duration = time.Since(span.start)
		span.task.End()

		if span.metric != nil {
			span.metric.Duration = span.duration
		}

		span.task = nil
	}
}

// Duration returns the time between Begin and End.
func (span *Span) Duration() time.Duration { return span.duration }

// Log logs the span and saves render output if enabled.
func (span *Span) Log() {
	if span.Kind == KindRender && len(span.Output) > 0 && SaveRenders {
		span.save()
	}

	event := log.Debug()
	if span.Error != nil {
		event = log.Warn().Err(span.Error)
	}

	event.
		Str("sys", "audit").
		Str("kind", string(span.Kind)).
		Str("target", span.Target).
		Str("status", span.status()).
		Str("locale", span.Locale).
		Str("len", humanizeSize(len(span.Output))).
		Dur("dur", span.duration).
		Str("request_id", span.RequestID)

	if span.Method != "" {
		event.Str("method", span.Method)
	}

	if span.savedFilename != "" {
		event.Str("saved_filename", span.savedFilename)
	}

	event.Send()
}

func (span *Span) status() string {
	switch {
	case span.Kind == KindRequest:
		return strconv.Itoa(span.StatusCode)
	case span.Error != nil:
		return "error"
	default:
		return "ok"
	}
}

func (span *Span) save() {
	id := span.RequestID
	if id == "" {
		id = idgen.Make()
	}

	filename := path.Join(RenderDirectory, id+".out")

	if err := os.WriteFile(filename, span.Output, renderFilePermissions); err != nil {
		log.Err(err).
			Str("request_id", span.RequestID).
			Msg("Failed to save render")

		return
	}

	span.savedFilename = filename
}

const (
	bytesInKB = 1024
	bytesInMB = bytesInKB * bytesInKB
	bytesInGB = bytesInMB * bytesInKB
)

func humanizeSize(x int) string {
	if x < bytesInKB {
		return strconv.Itoa(x)
	}

	if x < bytesInMB {
		return fmt.Sprintf("%.2fK", float64(x)/bytesInKB)
	}

	if x < bytesInGB {
		return fmt.Sprintf("%.2fM", float64(x)/bytesInMB)
	}

	return fmt.Sprintf("%.2fG", float64(x)/bytesInGB)
}
