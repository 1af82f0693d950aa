package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kryptomurat/backend/internal/aigen"
	"github.com/kryptomurat/backend/internal/auth"
	"github.com/kryptomurat/backend/internal/claims"
	"github.com/kryptomurat/backend/internal/database"
	"github.com/kryptomurat/backend/internal/metaverse"
	"github.com/kryptomurat/backend/internal/story"
	"github.com/kryptomurat/backend/internal/streaming"
)

const testWallet = "0x1111111111111111111111111111111111111111"

type sequenceIDProvider struct {
	next int
}

func (p *sequenceIDProvider) NewID() (string, error) {
	p.next++
	return fmt.Sprintf("id-%04d", p.next), nil
}

type testServer struct {
	handler http.Handler
	tokens  *auth.TokenIssuer
	ledger  *story.Ledger
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenSQLite(":memory:", nil)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	catalog, err := story.DefaultCatalog()
	if err != nil {
		t.Fatalf("unexpected catalog error: %v", err)
	}
	fixedClock := func() time.Time { return time.Unix(1750000000, 0) }
	ledger, err := story.NewLedger(story.LedgerConfig{
		Database:     db,
		StartChapter: catalog.StartID(),
		Clock:        fixedClock,
	})
	if err != nil {
		t.Fatalf("unexpected ledger error: %v", err)
	}
	resolver, err := story.NewResolver(story.ResolverConfig{Catalog: catalog, Ledger: ledger})
	if err != nil {
		t.Fatalf("unexpected resolver error: %v", err)
	}
	claimService, err := claims.NewService(claims.ServiceConfig{Database: db, Clock: fixedClock})
	if err != nil {
		t.Fatalf("unexpected claims error: %v", err)
	}
	metaverseService, err := metaverse.NewService(metaverse.ServiceConfig{
		Database:   db,
		Clock:      fixedClock,
		IDProvider: &sequenceIDProvider{},
	})
	if err != nil {
		t.Fatalf("unexpected metaverse error: %v", err)
	}
	generator, err := aigen.NewService(aigen.ServiceConfig{
		Database:   db,
		Clock:      fixedClock,
		IDProvider: &sequenceIDProvider{},
	})
	if err != nil {
		t.Fatalf("unexpected generator error: %v", err)
	}
	playbackTokens, err := streaming.NewTokenIssuer(streaming.TokenIssuerConfig{
		SigningSecret: []byte("stream-secret"),
		BaseURL:       "https://stream.kryptomurat.de/live",
	})
	if err != nil {
		t.Fatalf("unexpected streaming error: %v", err)
	}

	tokens := auth.NewTokenIssuer(auth.TokenIssuerConfig{
		SigningSecret: []byte("test-secret"),
		Issuer:        "murat-auth",
		Audience:      "murat-api",
	})
	authenticator, err := auth.NewWalletAuthenticator(auth.WalletAuthenticatorConfig{
		Nonces:   auth.NewMemoryNonceStore(),
		Verifier: auth.InsecureAllowAllVerifier{},
		Tokens:   tokens,
	})
	if err != nil {
		t.Fatalf("unexpected authenticator error: %v", err)
	}

	handler, err := NewHTTPHandler(Dependencies{
		Authenticator: authenticator,
		TokenManager:  tokens,
		Catalog:       catalog,
		Ledger:        ledger,
		Resolver:      resolver,
		Claims:        claimService,
		Metaverse:     metaverseService,
		AccessPass:    metaverseService,
		AIGen:         generator,
		Streaming:     playbackTokens,
	})
	if err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}

	return &testServer{handler: handler, tokens: tokens, ledger: ledger}
}

func (s *testServer) bearerFor(t *testing.T, wallet string) string {
	t.Helper()
	token, _, err := s.tokens.IssueBackendToken(context.Background(), wallet)
	if err != nil {
		t.Fatalf("unexpected token error: %v", err)
	}
	return "Bearer " + token
}

func (s *testServer) do(t *testing.T, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("unexpected marshal error: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	request := httptest.NewRequest(method, path, reader)
	request.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		request.Header.Set("Authorization", bearer)
	}
	recorder := httptest.NewRecorder()
	s.handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("unexpected decode error: %v (body %s)", err, recorder.Body.String())
	}
}

func TestProtectedRoutesRejectMissingBearer(t *testing.T) {
	server := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/story/progress"},
		{http.MethodPost, "/story/initialize"},
		{http.MethodPost, "/story/choice"},
		{http.MethodPost, "/metaverse/airdrop/claim"},
		{http.MethodPost, "/ai/generate"},
	}
	for _, route := range paths {
		recorder := server.do(t, route.method, route.path, "", nil)
		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", route.method, route.path, recorder.Code)
		}
	}
}

func TestProtectedRoutesRejectBadToken(t *testing.T) {
	server := newTestServer(t)

	recorder := server.do(t, http.MethodGet, "/story/progress", "Bearer not-a-token", nil)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestWalletNonceAndLogin(t *testing.T) {
	server := newTestServer(t)

	recorder := server.do(t, http.MethodPost, "/auth/wallet/nonce", "", map[string]string{
		"wallet_address": testWallet,
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var nonceResponse struct {
		WalletAddress string `json:"wallet_address"`
		Message       string `json:"message"`
	}
	decodeBody(t, recorder, &nonceResponse)
	if nonceResponse.WalletAddress != testWallet {
		t.Fatalf("unexpected wallet in nonce response: %s", nonceResponse.WalletAddress)
	}
	if nonceResponse.Message == "" {
		t.Fatalf("expected a login message")
	}

	recorder = server.do(t, http.MethodPost, "/auth/wallet", "", map[string]string{
		"wallet_address": testWallet,
		"signature":      "signed",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var loginResponse struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decodeBody(t, recorder, &loginResponse)
	if loginResponse.AccessToken == "" || loginResponse.TokenType != "Bearer" {
		t.Fatalf("unexpected login response: %s", recorder.Body.String())
	}
}

func TestWalletLoginWithoutNonce(t *testing.T) {
	server := newTestServer(t)

	recorder := server.do(t, http.MethodPost, "/auth/wallet", "", map[string]string{
		"wallet_address": testWallet,
		"signature":      "signed",
	})
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without pending nonce, got %d", recorder.Code)
	}
}

func TestStoryInitializeAndProgress(t *testing.T) {
	server := newTestServer(t)
	bearer := server.bearerFor(t, testWallet)

	recorder := server.do(t, http.MethodGet, "/story/progress", bearer, nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before initialize, got %d", recorder.Code)
	}

	recorder = server.do(t, http.MethodPost, "/story/initialize", bearer, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var progress struct {
		CurrentChapter    string   `json:"current_chapter"`
		CompletedChapters []string `json:"completed_chapters"`
		ReputationScore   int64    `json:"reputation_score"`
		StoryPath         *string  `json:"story_path"`
	}
	decodeBody(t, recorder, &progress)
	if progress.CurrentChapter != "ch1" {
		t.Fatalf("expected ch1, got %s", progress.CurrentChapter)
	}
	if progress.StoryPath != nil {
		t.Fatalf("expected null story path, got %v", *progress.StoryPath)
	}
}

func TestStoryChoiceFlowAndErrorMapping(t *testing.T) {
	server := newTestServer(t)
	bearer := server.bearerFor(t, testWallet)

	if recorder := server.do(t, http.MethodPost, "/story/initialize", bearer, nil); recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 on initialize, got %d", recorder.Code)
	}

	choiceIndex := 0
	recorder := server.do(t, http.MethodPost, "/story/choice", bearer, map[string]interface{}{
		"chapter_id":   "ch1",
		"choice_index": &choiceIndex,
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var outcome struct {
		Consequence      string  `json:"consequence"`
		ReputationChange int64   `json:"reputation_change"`
		NextChapter      *string `json:"next_chapter"`
	}
	decodeBody(t, recorder, &outcome)
	if outcome.ReputationChange != 5 {
		t.Fatalf("expected reputation change 5, got %d", outcome.ReputationChange)
	}
	if outcome.NextChapter == nil || *outcome.NextChapter != "ch2" {
		t.Fatalf("expected next chapter ch2, got %v", outcome.NextChapter)
	}

	// Replaying the same chapter maps to 409.
	recorder = server.do(t, http.MethodPost, "/story/choice", bearer, map[string]interface{}{
		"chapter_id":   "ch1",
		"choice_index": &choiceIndex,
	})
	if recorder.Code != http.StatusConflict {
		t.Fatalf("expected 409 on replay, got %d: %s", recorder.Code, recorder.Body.String())
	}

	// Unknown chapter maps to 404.
	recorder = server.do(t, http.MethodPost, "/story/choice", bearer, map[string]interface{}{
		"chapter_id":   "ch99",
		"choice_index": &choiceIndex,
	})
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown chapter, got %d", recorder.Code)
	}

	// Out-of-range choice maps to 400.
	badIndex := 9
	recorder = server.do(t, http.MethodPost, "/story/choice", bearer, map[string]interface{}{
		"chapter_id":   "ch2",
		"choice_index": &badIndex,
	})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid choice, got %d", recorder.Code)
	}
}

func TestGatedChapterRequiresOwnership(t *testing.T) {
	server := newTestServer(t)
	bearer := server.bearerFor(t, testWallet)

	recorder := server.do(t, http.MethodGet, "/story/chapter/ch4", bearer, nil)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without nft, got %d", recorder.Code)
	}

	recorder = server.do(t, http.MethodPost, "/metaverse/marketplace/buy", bearer, map[string]string{
		"nft_id": "meme_nft_1",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 on purchase, got %d: %s", recorder.Code, recorder.Body.String())
	}

	recorder = server.do(t, http.MethodGet, "/story/chapter/ch4", bearer, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 with nft, got %d: %s", recorder.Code, recorder.Body.String())
	}
}

func TestAirdropClaimMapsDuplicateToConflict(t *testing.T) {
	server := newTestServer(t)
	bearer := server.bearerFor(t, testWallet)

	recorder := server.do(t, http.MethodPost, "/metaverse/airdrop/claim", bearer, map[string]string{
		"airdrop_id": "daily_bonus",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var claim struct {
		Success bool  `json:"success"`
		Amount  int64 `json:"amount"`
	}
	decodeBody(t, recorder, &claim)
	if !claim.Success || claim.Amount != 50 {
		t.Fatalf("unexpected claim response: %s", recorder.Body.String())
	}

	recorder = server.do(t, http.MethodPost, "/metaverse/airdrop/claim", bearer, map[string]string{
		"airdrop_id": "daily_bonus",
	})
	if recorder.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate claim, got %d", recorder.Code)
	}

	recorder = server.do(t, http.MethodPost, "/metaverse/airdrop/claim", bearer, map[string]string{
		"airdrop_id": "no_such_airdrop",
	})
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown airdrop, got %d", recorder.Code)
	}
}

func TestVotingEndpoints(t *testing.T) {
	server := newTestServer(t)
	bearer := server.bearerFor(t, testWallet)

	recorder := server.do(t, http.MethodGet, "/metaverse/voting/proposals", "", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}

	recorder = server.do(t, http.MethodPost, "/metaverse/voting/vote", bearer, map[string]string{
		"proposal_id": "proposal_1",
		"option":      "Ja",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	recorder = server.do(t, http.MethodPost, "/metaverse/voting/vote", bearer, map[string]string{
		"proposal_id": "proposal_1",
		"option":      "Vielleicht",
	})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid option, got %d", recorder.Code)
	}

	recorder = server.do(t, http.MethodGet, "/metaverse/voting/results/proposal_1", "", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var results struct {
		Results map[string]int64 `json:"results"`
	}
	decodeBody(t, recorder, &results)
	if results.Results["Ja"] != 1 {
		t.Fatalf("unexpected tally: %v", results.Results)
	}
}

func TestStoryVoteEndpoints(t *testing.T) {
	server := newTestServer(t)
	bearer := server.bearerFor(t, testWallet)

	recorder := server.do(t, http.MethodPost, "/story/vote", bearer, map[string]string{
		"vote_type": "next_direction",
		"option":    "risiko",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	recorder = server.do(t, http.MethodGet, "/story/votes/next_direction", bearer, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var results struct {
		Results map[string]int64 `json:"results"`
	}
	decodeBody(t, recorder, &results)
	if results.Results["risiko"] != 1 {
		t.Fatalf("unexpected tally: %v", results.Results)
	}
}

func TestAIGenerateEndpoint(t *testing.T) {
	server := newTestServer(t)
	bearer := server.bearerFor(t, testWallet)

	recorder := server.do(t, http.MethodPost, "/ai/generate", bearer, map[string]string{
		"prompt":       "Bitcoin Meme bitte",
		"content_type": "meme",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var response struct {
		Success     bool   `json:"success"`
		Content     string `json:"content"`
		ContentType string `json:"content_type"`
		SessionID   string `json:"session_id"`
	}
	decodeBody(t, recorder, &response)
	if !response.Success || response.Content == "" || response.SessionID == "" {
		t.Fatalf("unexpected response: %s", recorder.Body.String())
	}

	recorder = server.do(t, http.MethodPost, "/ai/generate", bearer, map[string]string{
		"prompt":       "irgendwas",
		"content_type": "video",
	})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad content type, got %d", recorder.Code)
	}
}

func TestStreamTokenRequiresOwnership(t *testing.T) {
	server := newTestServer(t)
	bearer := server.bearerFor(t, testWallet)

	recorder := server.do(t, http.MethodPost, "/streaming/token", bearer, map[string]string{
		"stream_id": "murat-live",
	})
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without nft, got %d", recorder.Code)
	}

	if recorder := server.do(t, http.MethodPost, "/metaverse/marketplace/buy", bearer, map[string]string{
		"nft_id": "meme_nft_2",
	}); recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 on purchase, got %d", recorder.Code)
	}

	recorder = server.do(t, http.MethodPost, "/streaming/token", bearer, map[string]string{
		"stream_id": "murat-live",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 with nft, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var grant struct {
		Token       string `json:"token"`
		PlaybackURL string `json:"playback_url"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	decodeBody(t, recorder, &grant)
	if grant.Token == "" || grant.PlaybackURL == "" || grant.ExpiresIn <= 0 {
		t.Fatalf("unexpected grant: %s", recorder.Body.String())
	}
}

func TestPublicCatalogEndpoints(t *testing.T) {
	server := newTestServer(t)

	for _, path := range []string{
		"/story/chapters",
		"/metaverse/world",
		"/metaverse/airdrops",
		"/metaverse/marketplace/nfts",
	} {
		recorder := server.do(t, http.MethodGet, path, "", nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, recorder.Code)
		}
	}
}
