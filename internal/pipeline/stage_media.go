package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"coursebuild/internal/align"
	"coursebuild/internal/fileutil"
	"coursebuild/internal/lesson"
	"coursebuild/internal/logging"
)

// narrationMedia is the optional per-lesson recording used for forced
// alignment. Without it (the common case before recording) timings come from
// the uniform fallback.
const narrationMedia = "narration.wav"

// stageVideoPlan derives the overlay plan from the script master: one scene
// per section with voiceover timings, overlay bullets, and focus triplets.
// The asset manifest is created empty when absent; authored manifests are
// left untouched and validated instead of regenerated.
func stageVideoPlan(ctx context.Context, p *Pipeline, env *stageEnv) (*Outcome, error) {
	master, err := readMaster(env.dir)
	if err != nil {
		return nil, err
	}

	videoPlan := lesson.VideoPlan{
		SchemaVersion: lesson.CurrentSchemaVersion,
		LessonID:      env.lessonID,
		Title:         master.Title,
		Scenes:        make([]lesson.Scene, 0, len(master.Sections)),
	}
	for i, section := range master.Sections {
		scene := lesson.Scene{
			ID:             fmt.Sprintf("scene-%02d", i+1),
			Heading:        section.Heading,
			VoiceoverLines: make([]lesson.VoiceoverLine, 0, len(section.Narration)),
			OverlayBullets: section.Bullets,
			FocusTriplets:  section.LanguageFocus,
			AssetRefs:      []string{},
		}
		segments := p.alignNarration(ctx, env, section.Narration)
		for li, text := range section.Narration {
			voLine := lesson.VoiceoverLine{Text: text}
			if li < len(segments) {
				voLine.Timing = &lesson.Timing{Start: segments[li].Start, End: segments[li].End}
			}
			scene.VoiceoverLines = append(scene.VoiceoverLines, voLine)
		}
		videoPlan.Scenes = append(videoPlan.Scenes, scene)
	}

	if err := writeArtifact(filepath.Join(env.dir, lesson.FileVideoPlan), &videoPlan); err != nil {
		return nil, err
	}

	manifestPath := filepath.Join(env.dir, lesson.FileAssets)
	if !fileutil.Exists(manifestPath) {
		manifest := lesson.AssetManifest{
			SchemaVersion: lesson.CurrentSchemaVersion,
			LessonID:      env.lessonID,
			Assets:        []lesson.AssetRef{},
			Provenance:    []lesson.ProvenanceEntry{},
		}
		if err := writeArtifact(manifestPath, &manifest); err != nil {
			return nil, err
		}
	}
	return pass(""), nil
}

// alignNarration produces one timed segment per narration line. WhisperX is
// attempted only when enabled and a recording exists; every failure falls
// back to the deterministic uniform split.
func (p *Pipeline) alignNarration(ctx context.Context, env *stageEnv, narration []string) []align.Segment {
	uniform := align.NewUniform()
	request := align.Request{
		MediaPath:  filepath.Join(env.dir, narrationMedia),
		Transcript: narration,
		Language:   p.cfg.Align.Language,
	}

	if p.cfg.Align.Enabled && fileutil.Exists(request.MediaPath) {
		aligner := align.NewWhisperX(
			p.cfg.Align.Binary,
			p.cfg.Align.Language,
			time.Duration(p.cfg.Align.TimeoutSeconds)*time.Second,
		)
		segments, err := aligner.Align(ctx, request)
		if err == nil && len(segments) == len(narration) {
			return segments
		}
		if err != nil {
			logging.WithContext(ctx, p.logger).Warn("alignment failed, using uniform fallback",
				logging.Error(err))
		}
	}

	segments, _ := uniform.Align(ctx, request)
	return segments
}
