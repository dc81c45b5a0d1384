package biz

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/kart-io/logger"

	"github.com/thrust-io/briefd/internal/briefd/metrics"
	"github.com/thrust-io/briefd/internal/briefd/store"
	"github.com/thrust-io/briefd/internal/model"
)

// Retrieval fan-out per scope.
const (
	ProjectScopeTopN = 5
	UserScopeTopN    = 7
)

// Fixed zero-result responses.
const (
	NoProjectDataMessage = "No relevant knowledgebase data found for this project."
	NoUserDataMessage    = "No relevant briefs found in your account."
)

var citationPattern = regexp.MustCompile(`\[CITATION:\s*([^\]]+)\]`)

// Responder answers questions over the brief knowledgebase with citation
// resolution, at project or account scope.
type Responder struct {
	summarizer *Summarizer
	indexer    *Indexer
	factory    store.Factory
	vectors    store.VectorStore
	cache      *AskCache
}

// NewResponder creates a Responder. cache may be nil to disable caching.
func NewResponder(summarizer *Summarizer, indexer *Indexer, factory store.Factory, vectors store.VectorStore, cache *AskCache) *Responder {
	return &Responder{
		summarizer: summarizer,
		indexer:    indexer,
		factory:    factory,
		vectors:    vectors,
		cache:      cache,
	}
}

// AskProject answers a question over one project's briefs.
func (r *Responder) AskProject(ctx context.Context, projectID, message string, history []model.HistoryTurn) (*model.AskResult, error) {
	key := r.cache.Key("project", projectID, message, history)
	if cached := r.cache.Get(ctx, key); cached != nil {
		metrics.Get().RecordAsk(true, nil)
		return cached, nil
	}

	result, err := r.ask(ctx, askScope{
		projectID: projectID,
		topN:      ProjectScopeTopN,
		emptyMsg:  NoProjectDataMessage,
	}, message, history)
	metrics.Get().RecordAsk(false, err)
	if err != nil {
		return nil, err
	}

	r.logTurns(ctx, projectID, "", message, result.Response)
	r.cache.Set(ctx, key, result)
	return result, nil
}

// AskUser answers a question over all briefs in a user's account.
func (r *Responder) AskUser(ctx context.Context, userID, message string, history []model.HistoryTurn) (*model.AskResult, error) {
	key := r.cache.Key("user", userID, message, history)
	if cached := r.cache.Get(ctx, key); cached != nil {
		metrics.Get().RecordAsk(true, nil)
		return cached, nil
	}

	result, err := r.ask(ctx, askScope{
		userID:   userID,
		topN:     UserScopeTopN,
		emptyMsg: NoUserDataMessage,
	}, message, history)
	metrics.Get().RecordAsk(false, err)
	if err != nil {
		return nil, err
	}

	r.cache.Set(ctx, key, result)
	return result, nil
}

type askScope struct {
	projectID string
	userID    string
	topN      int
	emptyMsg  string
}

func (s askScope) global() bool { return s.userID != "" }

func (r *Responder) ask(ctx context.Context, scope askScope, message string, history []model.HistoryTurn) (*model.AskResult, error) {
	// Embedding failure is a valid outcome, not an error: the caller gets a
	// message and no citations.
	embedding, err := r.indexer.EmbedText(ctx, message)
	if err != nil {
		logger.Warnw("query embedding failed", "error", err.Error())
		return &model.AskResult{
			Response:  "Embedding error: " + err.Error(),
			Citations: []model.Citation{},
		}, nil
	}

	var matches []store.Match
	if scope.global() {
		matches, err = r.vectors.SearchByUser(ctx, embedding, scope.userID, scope.topN)
	} else {
		matches, err = r.vectors.SearchByProject(ctx, embedding, scope.projectID, scope.topN)
	}
	if err != nil {
		return nil, err
	}

	records, err := r.loadRecords(ctx, matches, scope.global())
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return &model.AskResult{Response: scope.emptyMsg, Citations: []model.Citation{}}, nil
	}

	contextText := buildContext(records, scope.global())

	response, err := r.summarizer.Ask(ctx, contextText, message, history)
	if err != nil {
		return nil, err
	}

	citations := resolveCitations(response, records, scope.global())
	return &model.AskResult{Response: response, Citations: citations}, nil
}

// loadRecords joins vector matches with their relational rows, preserving
// match order. Matches whose brief row is gone are dropped.
func (r *Responder) loadRecords(ctx context.Context, matches []store.Match, withProjects bool) ([]model.KnowledgeRecord, error) {
	if len(matches) == 0 {
		return nil, nil
	}

	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.BriefID
	}

	briefs, err := r.factory.Briefs().GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load matched briefs: %w", err)
	}

	byID := make(map[string]*model.Brief, len(briefs))
	projectIDs := make([]string, 0, len(briefs))
	for _, b := range briefs {
		byID[b.ID] = b
		if b.ProjectID != "" {
			projectIDs = append(projectIDs, b.ProjectID)
		}
	}

	projectTitles := map[string]string{}
	if withProjects {
		projectTitles, err = r.factory.Projects().TitlesByIDs(ctx, projectIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load project titles: %w", err)
		}
	}

	records := make([]model.KnowledgeRecord, 0, len(matches))
	for _, m := range matches {
		b, ok := byID[m.BriefID]
		if !ok {
			logger.Warnw("vector match has no brief row", "brief_id", m.BriefID)
			continue
		}
		records = append(records, model.KnowledgeRecord{
			BriefID:          b.ID,
			ProjectID:        b.ProjectID,
			ProjectTitle:     projectTitles[b.ProjectID],
			Title:            b.Title,
			Summary:          b.Summary,
			ExecutiveSummary: b.ExecutiveSummary,
			SlideBullets:     b.SlideBullets,
			Score:            m.Score,
		})
	}
	return records, nil
}

// buildContext assembles the knowledgebase context document fed to the
// model. Absent fields are omitted, not emitted empty.
func buildContext(records []model.KnowledgeRecord, withProjects bool) string {
	sections := make([]string, 0, len(records))
	for _, rec := range records {
		var lines []string
		if rec.Title != "" {
			if withProjects {
				lines = append(lines, fmt.Sprintf("# %s (Project: %s)", rec.Title, rec.ProjectTitle))
			} else {
				lines = append(lines, "# "+rec.Title)
			}
		}
		if rec.ExecutiveSummary != "" {
			lines = append(lines, "## Executive Summary\n"+rec.ExecutiveSummary)
		}
		if rec.Summary != "" {
			lines = append(lines, "## Summary\n"+rec.Summary)
		}
		if rec.SlideBullets != "" {
			lines = append(lines, "## Slide Bullets\n"+rec.SlideBullets)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}
	return strings.Join(sections, "\n\n")
}

// resolveCitations extracts [CITATION: ...] markers and links them to the
// retrieved records. Each label appears once, in order of first appearance;
// unresolved labels keep nil identifiers.
//
// Project scope resolves by exact title match. Account scope resolves by
// substring containment against title|||project_id composite keys, first
// match wins — an intentionally loose strategy carried over from the
// original resolution rules.
func resolveCitations(response string, records []model.KnowledgeRecord, global bool) []model.Citation {
	raw := citationPattern.FindAllStringSubmatch(response, -1)

	citations := make([]model.Citation, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	resolved, unresolved := 0, 0

	for _, match := range raw {
		label := strings.TrimSpace(match[1])
		if seen[label] {
			continue
		}
		seen[label] = true

		citation := model.Citation{Label: label}
		if global {
			for _, rec := range records {
				if rec.Title == "" || rec.ProjectID == "" {
					continue
				}
				key := rec.Title + "|||" + rec.ProjectID
				if strings.Contains(key, label) {
					briefID, projectID, projectTitle := rec.BriefID, rec.ProjectID, rec.ProjectTitle
					citation.BriefID = &briefID
					citation.ProjectID = &projectID
					citation.ProjectTitle = &projectTitle
					break
				}
			}
		} else {
			for _, rec := range records {
				if rec.Title != "" && rec.Title == label {
					briefID := rec.BriefID
					citation.BriefID = &briefID
					break
				}
			}
		}

		if citation.BriefID != nil {
			resolved++
		} else {
			unresolved++
		}
		citations = append(citations, citation)
	}

	metrics.Get().RecordCitations(resolved, unresolved)
	return citations
}

// logTurns appends the question and answer to the project conversation log.
// Failures are logged, never surfaced.
func (r *Responder) logTurns(ctx context.Context, projectID, userID, question, answer string) {
	if projectID == "" {
		return
	}

	turns := []*model.ChatTurn{
		{ProjectID: projectID, UserID: userID, Role: model.RoleUser, Content: question},
		{ProjectID: projectID, UserID: userID, Role: model.RoleAssistant, Content: answer},
	}
	for _, turn := range turns {
		if err := r.factory.Chats().Append(ctx, turn); err != nil {
			logger.Warnw("failed to log chat turn", "project_id", projectID, "error", err.Error())
			return
		}
	}
}
