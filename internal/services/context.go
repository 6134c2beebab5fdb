package services

import "context"

type contextKey string

const (
	lessonIDKey  contextKey = "lesson_id"
	stageKey     contextKey = "stage"
	requestIDKey contextKey = "request_id"
)

// WithLessonID annotates context with the lesson identifier (e.g. M01-L001).
func WithLessonID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, lessonIDKey, id)
}

// LessonIDFromContext extracts the lesson identifier if present.
func LessonIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(lessonIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(stageKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
