package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kryptomurat/backend/internal/story"
)

type progressPayload struct {
	CurrentChapter    string   `json:"current_chapter"`
	CompletedChapters []string `json:"completed_chapters"`
	ReputationScore   int64    `json:"reputation_score"`
	StoryPath         *string  `json:"story_path"`
}

func progressToPayload(record story.ProgressRecord) (progressPayload, error) {
	completed, err := record.CompletedList()
	if err != nil {
		return progressPayload{}, err
	}
	payload := progressPayload{
		CurrentChapter:    record.CurrentChapter,
		CompletedChapters: completed,
		ReputationScore:   record.ReputationScore,
	}
	if record.StoryPath != "" {
		path := record.StoryPath
		payload.StoryPath = &path
	}
	return payload, nil
}

func (h *httpHandler) handleStoryProgress(c *gin.Context) {
	wallet, ok := h.contextWallet(c)
	if !ok {
		return
	}

	record, err := h.ledger.GetProgress(c.Request.Context(), wallet)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}

	payload, err := progressToPayload(record)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

func (h *httpHandler) handleStoryInitialize(c *gin.Context) {
	wallet, ok := h.contextWallet(c)
	if !ok {
		return
	}

	record, err := h.ledger.GetOrInitProgress(c.Request.Context(), wallet)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}

	payload, err := progressToPayload(record)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

type chapterSummaryPayload struct {
	ID            string `json:"id"`
	ChapterNumber int    `json:"chapter_number"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Gated         bool   `json:"gated"`
	PathTag       string `json:"path_tag,omitempty"`
}

func (h *httpHandler) handleStoryChapters(c *gin.Context) {
	chapters := h.catalog.Chapters()
	payload := make([]chapterSummaryPayload, 0, len(chapters))
	for _, chapter := range chapters {
		payload = append(payload, chapterSummaryPayload{
			ID:            chapter.ID,
			ChapterNumber: chapter.Number,
			Title:         chapter.Title,
			Description:   chapter.Description,
			Gated:         chapter.Gated,
			PathTag:       chapter.PathTag,
		})
	}
	c.JSON(http.StatusOK, payload)
}

type choicePayload struct {
	Text             string `json:"text"`
	ReputationChange int64  `json:"reputation_change"`
}

type chapterPayload struct {
	ID            string          `json:"id"`
	ChapterNumber int             `json:"chapter_number"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Content       string          `json:"content"`
	Choices       []choicePayload `json:"choices"`
	Gated         bool            `json:"gated"`
}

func (h *httpHandler) handleStoryChapter(c *gin.Context) {
	wallet, ok := h.contextWallet(c)
	if !ok {
		return
	}

	hasProof, ok := h.holdsAccessPass(c, wallet)
	if !ok {
		return
	}

	chapter, err := h.resolver.ViewChapter(c.Param("id"), hasProof)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}

	choices := make([]choicePayload, 0, len(chapter.Choices))
	for _, choice := range chapter.Choices {
		choices = append(choices, choicePayload{
			Text:             choice.Text,
			ReputationChange: choice.ReputationDelta,
		})
	}

	c.JSON(http.StatusOK, chapterPayload{
		ID:            chapter.ID,
		ChapterNumber: chapter.Number,
		Title:         chapter.Title,
		Description:   chapter.Description,
		Content:       chapter.Content,
		Choices:       choices,
		Gated:         chapter.Gated,
	})
}

type choiceRequestPayload struct {
	ChapterID   string `json:"chapter_id"`
	ChoiceIndex *int   `json:"choice_index"`
}

type choiceResponsePayload struct {
	Consequence      string  `json:"consequence"`
	ReputationChange int64   `json:"reputation_change"`
	NextChapter      *string `json:"next_chapter"`
}

func (h *httpHandler) handleStoryChoice(c *gin.Context) {
	wallet, ok := h.contextWallet(c)
	if !ok {
		return
	}

	var request choiceRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil ||
		strings.TrimSpace(request.ChapterID) == "" ||
		request.ChoiceIndex == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	hasProof, ok := h.holdsAccessPass(c, wallet)
	if !ok {
		return
	}

	outcome, err := h.resolver.ResolveChoice(c.Request.Context(), wallet, request.ChapterID, *request.ChoiceIndex, hasProof)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}

	response := choiceResponsePayload{
		Consequence:      outcome.Consequence,
		ReputationChange: outcome.ReputationDelta,
	}
	if outcome.NextChapter != "" {
		next := outcome.NextChapter
		response.NextChapter = &next
	}
	c.JSON(http.StatusOK, response)
}

type storyVoteRequestPayload struct {
	VoteType string `json:"vote_type"`
	Option   string `json:"option"`
}

func (h *httpHandler) handleStoryVote(c *gin.Context) {
	wallet, ok := h.contextWallet(c)
	if !ok {
		return
	}

	var request storyVoteRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil ||
		strings.TrimSpace(request.VoteType) == "" ||
		strings.TrimSpace(request.Option) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	resourceID := storyVoteResourcePrefix + request.VoteType
	if _, err := h.claims.UpsertVote(c.Request.Context(), wallet.String(), resourceID, request.Option); err != nil {
		h.respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accepted": true})
}

func (h *httpHandler) handleStoryVoteResults(c *gin.Context) {
	if _, ok := h.contextWallet(c); !ok {
		return
	}

	resourceID := storyVoteResourcePrefix + c.Param("vote_type")
	tally, err := h.claims.TallyVotes(c.Request.Context(), resourceID)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": tally})
}
