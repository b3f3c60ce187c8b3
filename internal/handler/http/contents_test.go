// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-ledger-keeper/internal/config"
	"github.com/MKhiriev/go-ledger-keeper/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contentsURL = "/repos/mkhiriev/ledger-data/contents/data/ledger.json"

func newStubServer(t *testing.T, token string) *httptest.Server {
	t.Helper()

	h := NewHandler(config.Server{Token: token}, logger.Nop())
	srv := httptest.NewServer(h.Init())
	t.Cleanup(srv.Close)

	return srv
}

// putDocument — хелпер: PUT документа и разбор ответа
func putDocument(t *testing.T, srv *httptest.Server, payload, sha string) (*http.Response, putContentsResponse) {
	t.Helper()

	body, err := json.Marshal(putContentsRequest{
		Message: "ledger-keeper: update data",
		Content: base64.StdEncoding.EncodeToString([]byte(payload)),
		Branch:  "main",
		SHA:     sha,
	})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut, srv.URL+contentsURL, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var pr putContentsResponse
	_ = json.NewDecoder(resp.Body).Decode(&pr)
	return resp, pr
}

func getDocument(t *testing.T, srv *httptest.Server) (*http.Response, contentsResponse) {
	t.Helper()

	resp, err := srv.Client().Get(srv.URL + contentsURL + "?ref=main")
	require.NoError(t, err)
	defer resp.Body.Close()

	var cr contentsResponse
	_ = json.NewDecoder(resp.Body).Decode(&cr)
	return resp, cr
}

// ── contents ────────────────────────────────────────────────────────────────

func TestGetContents_AbsentDocument_NotFound(t *testing.T) {
	srv := newStubServer(t, "")

	resp, _ := getDocument(t, srv)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPutContents_CreateThenFetch(t *testing.T) {
	srv := newStubServer(t, "")
	payload := `{"collections":{"products":[]}}`

	// Act: создание документа без sha
	putResp, created := putDocument(t, srv, payload, "")

	require.Equal(t, http.StatusCreated, putResp.StatusCode)
	assert.NotEmpty(t, created.Content.SHA)
	assert.Equal(t, "data/ledger.json", created.Content.Path)

	getResp, fetched := getDocument(t, srv)

	require.Equal(t, http.StatusOK, getResp.StatusCode)
	assert.Equal(t, created.Content.SHA, fetched.SHA)
	assert.Equal(t, "base64", fetched.Encoding)
	assert.Equal(t, "ledger.json", fetched.Name)
	// Контент переносится с newline-обёрткой, как у настоящего API
	assert.Contains(t, fetched.Content, "\n")
}

func TestPutContents_UpdateWithCurrentSHA(t *testing.T) {
	srv := newStubServer(t, "")

	_, created := putDocument(t, srv, `{"v":1}`, "")
	updateResp, updated := putDocument(t, srv, `{"v":2}`, created.Content.SHA)

	require.Equal(t, http.StatusOK, updateResp.StatusCode)
	assert.NotEqual(t, created.Content.SHA, updated.Content.SHA)
}

func TestPutContents_StaleSHA_Conflict(t *testing.T) {
	srv := newStubServer(t, "")

	_, first := putDocument(t, srv, `{"v":1}`, "")
	_, _ = putDocument(t, srv, `{"v":2}`, first.Content.SHA)

	// Повторная запись с устаревшим sha
	resp, _ := putDocument(t, srv, `{"v":3}`, first.Content.SHA)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestPutContents_ExistingWithoutSHA_Unprocessable(t *testing.T) {
	srv := newStubServer(t, "")

	_, _ = putDocument(t, srv, `{"v":1}`, "")
	resp, _ := putDocument(t, srv, `{"v":2}`, "")

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestPutContents_InvalidBase64_BadRequest(t *testing.T) {
	srv := newStubServer(t, "")

	body := []byte(`{"message":"m","content":"%%%not-base64%%%","branch":"main"}`)
	req, err := http.NewRequest(http.MethodPut, srv.URL+contentsURL, bytes.NewReader(body))
	require.NoError(t, err)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGitBlobSHA_MatchesKnownValue(t *testing.T) {
	// git hash-object для "hello\n"
	assert.Equal(t, "ce013625030ba8dba906f756967f9e9ca394464a", gitBlobSHA([]byte("hello\n")))
}

// ── auth ────────────────────────────────────────────────────────────────────

func TestCheckToken_RejectsMissingAndWrongToken(t *testing.T) {
	srv := newStubServer(t, "secret-token")

	// без заголовка
	resp, err := srv.Client().Get(srv.URL + "/user")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// с чужим токеном
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/user", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer other-token")

	resp, err = srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCheckToken_AcceptsConfiguredToken(t *testing.T) {
	srv := newStubServer(t, "secret-token")

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/user", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer secret-token")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "bearer token", header: "Bearer abc", want: "abc"},
		{name: "token scheme", header: "token abc", want: "abc"},
		{name: "empty header", header: "", wantErr: ErrEmptyAuthorizationHeader},
		{name: "scheme only", header: "Bearer", wantErr: ErrInvalidAuthorizationHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractBearerToken(tt.header)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
