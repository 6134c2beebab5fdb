package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"coursebuild/internal/fileutil"
	"coursebuild/internal/lesson"
	"coursebuild/internal/status"
	"coursebuild/internal/translit"
)

// statusRules checks the durable lesson status: file presence, the
// READY_TO_RECORD requirements, and the fail-stop invariant against the
// persisted stage results. The fail-stop check is defense in depth; the
// orchestrator enforces it too, but drift in status.json must not go unseen.
func statusRules(dir string) []Issue {
	statusPath := status.Path(dir)
	if !fileutil.Exists(statusPath) {
		return []Issue{{Path: dir, Message: "Missing status.json"}}
	}

	st, err := status.Load(dir)
	if err != nil {
		return []Issue{{Path: statusPath, Message: err.Error()}}
	}

	var issues []Issue

	if st.State == status.StateReadyToRecord {
		for _, file := range lesson.RequiredForRelease {
			filePath := filepath.Join(dir, file)
			if !fileutil.Exists(filePath) {
				issues = append(issues, Issue{Path: filePath, Message: "Required file missing for READY_TO_RECORD"})
			}
		}
		if st.ValidatedAt == nil {
			issues = append(issues, Issue{Path: statusPath, Message: "READY_TO_RECORD requires validatedAt timestamp"})
		}
	}

	if result, ok := st.StageResult(2); ok && result == status.ResultFail {
		for _, stage := range st.SortedStageIDs() {
			if stage <= 2 {
				continue
			}
			if result, _ := st.StageResult(stage); result == status.ResultPass {
				issues = append(issues, Issue{
					Path:    statusPath,
					Message: fmt.Sprintf("Stage %d recorded PASS despite stage 2 FAIL", stage),
				})
			}
		}
	}

	return issues
}

func checkTriplet(issues []Issue, path, where string, lex lesson.Lexeme, requireToneMark bool) []Issue {
	if !lex.Complete() {
		return append(issues, Issue{Path: path, Message: where + ": triplet has blank fields"})
	}
	result := translit.Check(lex.Translit, requireToneMark)
	for _, found := range result.Issues {
		issues = append(issues, Issue{
			Path:    path,
			Message: fmt.Sprintf("%s: transliteration %q %s", where, lex.Translit, found.Message),
		})
	}
	return issues
}

// scriptMasterRules validates every triplet and bullet in the script master.
func scriptMasterRules(dir string, requireToneMark bool) []Issue {
	masterPath := filepath.Join(dir, lesson.FileScriptMaster)
	if !fileutil.Exists(masterPath) {
		return nil
	}
	var master lesson.ScriptMaster
	if err := fileutil.ReadJSON(masterPath, &master); err != nil {
		return []Issue{{Path: masterPath, Message: err.Error()}}
	}

	var issues []Issue
	for si, section := range master.Sections {
		for li, lex := range section.LanguageFocus {
			where := fmt.Sprintf("sections[%d].languageFocus[%d]", si, li)
			issues = checkTriplet(issues, masterPath, where, lex, requireToneMark)
		}
		for bi, bullet := range section.Bullets {
			where := fmt.Sprintf("sections[%d].bullets[%d]", si, bi)
			parts := strings.Split(bullet, "|")
			if len(parts) != 3 {
				issues = append(issues, Issue{Path: masterPath, Message: where + ": bullet must follow 'a | b | c' format"})
				continue
			}
			for _, part := range parts {
				if strings.TrimSpace(part) == "" {
					issues = append(issues, Issue{Path: masterPath, Message: where + ": bullet has blank segment"})
					break
				}
			}
			middle := strings.TrimSpace(parts[1])
			result := translit.Check(middle, requireToneMark)
			for _, found := range result.Issues {
				issues = append(issues, Issue{
					Path:    masterPath,
					Message: fmt.Sprintf("%s: transliteration %q %s", where, middle, found.Message),
				})
			}
		}
	}
	for li, line := range master.Roleplay.Lines {
		where := fmt.Sprintf("roleplay.lines[%d]", li)
		lex := lesson.Lexeme{Script: line.Script, Translit: line.Translit, Gloss: line.Gloss}
		issues = checkTriplet(issues, masterPath, where, lex, requireToneMark)
	}
	return issues
}

// documentRules scans the narration and visual markdown documents: drift scan
// plus a policy check of every triplet line's transliteration segment.
func documentRules(dir string, requireToneMark bool) []Issue {
	var issues []Issue
	for _, file := range []string{lesson.FileScriptSpoken, lesson.FileScriptVisual} {
		docPath := filepath.Join(dir, file)
		data, err := os.ReadFile(docPath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			issues = append(issues, Issue{Path: docPath, Message: err.Error()})
			continue
		}
		raw := string(data)
		for _, drift := range translit.ScanText(raw) {
			issues = append(issues, Issue{
				Path:    docPath,
				Message: fmt.Sprintf("line %d: %s", drift.Line, drift.Message),
			})
		}
		for _, segment := range translit.TripletSegments(raw) {
			result := translit.Check(segment.Translit, requireToneMark)
			for _, found := range result.Issues {
				issues = append(issues, Issue{
					Path:    docPath,
					Message: fmt.Sprintf("line %d: transliteration %q %s", segment.Line, segment.Translit, found.Message),
				})
			}
		}
	}
	return issues
}

// assetRules checks referential integrity of the asset manifest and the video
// plan: https-only URLs, declared licenses, provenance entries with identical
// source URLs, and no dangling asset references.
func assetRules(dir string) []Issue {
	manifestPath := filepath.Join(dir, lesson.FileAssets)
	if !fileutil.Exists(manifestPath) {
		return nil
	}
	var manifest lesson.AssetManifest
	if err := fileutil.ReadJSON(manifestPath, &manifest); err != nil {
		return []Issue{{Path: manifestPath, Message: err.Error()}}
	}

	var issues []Issue
	provenanceByAsset := make(map[string]lesson.ProvenanceEntry, len(manifest.Provenance))
	for _, entry := range manifest.Provenance {
		provenanceByAsset[entry.AssetID] = entry
	}

	declared := make(map[string]struct{}, len(manifest.Assets))
	for _, asset := range manifest.Assets {
		declared[asset.ID] = struct{}{}
		if !strings.HasPrefix(asset.URL, "https://") {
			issues = append(issues, Issue{
				Path:    manifestPath,
				Message: fmt.Sprintf("asset %s: url must use https scheme", asset.ID),
			})
		}
		if strings.TrimSpace(asset.License) == "" {
			issues = append(issues, Issue{
				Path:    manifestPath,
				Message: fmt.Sprintf("asset %s: license must be declared", asset.ID),
			})
		}
		entry, ok := provenanceByAsset[asset.ID]
		if !ok {
			issues = append(issues, Issue{
				Path:    manifestPath,
				Message: fmt.Sprintf("asset %s: no provenance entry", asset.ID),
			})
		} else if entry.SourceURL != asset.URL {
			issues = append(issues, Issue{
				Path:    manifestPath,
				Message: fmt.Sprintf("asset %s: provenance source url does not match asset url", asset.ID),
			})
		}
	}

	planPath := filepath.Join(dir, lesson.FileVideoPlan)
	if fileutil.Exists(planPath) {
		var videoPlan lesson.VideoPlan
		if err := fileutil.ReadJSON(planPath, &videoPlan); err != nil {
			issues = append(issues, Issue{Path: planPath, Message: err.Error()})
			return issues
		}
		for _, scene := range videoPlan.Scenes {
			for _, ref := range scene.AssetRefs {
				if _, ok := declared[ref]; !ok {
					issues = append(issues, Issue{
						Path:    planPath,
						Message: fmt.Sprintf("scene %s: asset reference %s not declared in %s", scene.ID, ref, lesson.FileAssets),
					})
				}
			}
		}
	}

	return issues
}

// coverageRules independently re-derives the lesson's new vocabulary from the
// script master and context on disk and checks both coverage invariants:
// every new vocab id needs at least three item-bank items and at least one
// curated quiz question. Running it against the files, not the orchestrator's
// in-memory computation, catches drift between stage 6 and what was written.
func coverageRules(dir string) []Issue {
	masterPath := filepath.Join(dir, lesson.FileScriptMaster)
	contextPath := filepath.Join(dir, lesson.FileContext)
	bankPath := filepath.Join(dir, lesson.FileQuizBank)
	quizPath := filepath.Join(dir, lesson.FileQuiz)
	if !fileutil.Exists(masterPath) || !fileutil.Exists(contextPath) || !fileutil.Exists(bankPath) {
		return nil
	}

	var master lesson.ScriptMaster
	if err := fileutil.ReadJSON(masterPath, &master); err != nil {
		return []Issue{{Path: masterPath, Message: err.Error()}}
	}
	var lessonContext lesson.Context
	if err := fileutil.ReadJSON(contextPath, &lessonContext); err != nil {
		return []Issue{{Path: contextPath, Message: err.Error()}}
	}
	var bank lesson.ItemBank
	if err := fileutil.ReadJSON(bankPath, &bank); err != nil {
		return []Issue{{Path: bankPath, Message: err.Error()}}
	}

	newIDs := NewVocabIDs(&master, &lessonContext)

	bankCounts := make(map[string]int, len(bank.Items))
	for _, item := range bank.Items {
		bankCounts[item.VocabID]++
	}
	var issues []Issue
	for _, vocabID := range newIDs {
		if bankCounts[vocabID] < 3 {
			issues = append(issues, Issue{
				Path:    bankPath,
				Message: fmt.Sprintf("new vocab %s has %d item bank items, need at least 3", vocabID, bankCounts[vocabID]),
			})
		}
	}

	if fileutil.Exists(quizPath) {
		var quiz lesson.QuizSet
		if err := fileutil.ReadJSON(quizPath, &quiz); err != nil {
			issues = append(issues, Issue{Path: quizPath, Message: err.Error()})
			return issues
		}
		quizCounts := make(map[string]int, len(quiz.Questions))
		for _, question := range quiz.Questions {
			quizCounts[question.VocabID]++
		}
		for _, vocabID := range newIDs {
			if quizCounts[vocabID] < 1 {
				issues = append(issues, Issue{
					Path:    quizPath,
					Message: fmt.Sprintf("new vocab %s has no quiz question", vocabID),
				})
			}
		}
	}

	return issues
}

// NewVocabIDs derives the lesson's newly-introduced vocabulary: ids present
// in the script master but absent from the context's known vocabulary.
// Sorted by id for deterministic iteration.
func NewVocabIDs(master *lesson.ScriptMaster, lessonContext *lesson.Context) []string {
	known := make(map[string]struct{}, len(lessonContext.KnownVocab))
	for _, lex := range lessonContext.KnownVocab {
		id := lex.VocabID
		if id == "" {
			id = lesson.VocabID(lex.Script, lex.Translit, lex.Gloss)
		}
		known[id] = struct{}{}
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, lex := range master.Lexemes() {
		if !lex.Complete() {
			continue
		}
		id := lesson.VocabID(lex.Script, lex.Translit, lex.Gloss)
		if _, already := known[id]; already {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
