// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-ledger-keeper/internal/config"
	"github.com/MKhiriev/go-ledger-keeper/internal/logger"
	"github.com/MKhiriev/go-ledger-keeper/models"
	"github.com/go-resty/resty/v2"
)

const apiVersion = "2022-11-28"

type gitHubStore struct {
	client *resty.Client

	contentsPath  string
	branch        string
	commitMessage string

	logger *logger.Logger
}

// contentsResponse is the body of GET /repos/{owner}/{repo}/contents/{path}.
// Content is base64 with embedded newlines; SHA is the blob version.
type contentsResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	SHA      string `json:"sha"`
}

type saveRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

type saveResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

// NewGitHubStore constructs a GitHub contents-API implementation of
// [RemoteStore]. It normalises and validates the base URL from
// storeCfg.APIBaseURL, attaches the access token to every request, and pins
// the API version header.
//
// Returns an error if storeCfg.APIBaseURL cannot be parsed as a valid URL.
func NewGitHubStore(storeCfg config.Store, logger *logger.Logger) (RemoteStore, error) {
	baseURL, err := normalizeBaseURL(storeCfg.APIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid store api base url: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(storeCfg.RequestTimeout).
		SetHeader("Accept", "application/vnd.github+json").
		SetHeader("X-GitHub-Api-Version", apiVersion).
		SetAuthToken(storeCfg.Token)

	return &gitHubStore{
		client: client,
		contentsPath: fmt.Sprintf("/repos/%s/%s/contents/%s",
			url.PathEscape(storeCfg.Owner), url.PathEscape(storeCfg.Repo), storeCfg.FilePath),
		branch:        storeCfg.Branch,
		commitMessage: storeCfg.CommitMessage,
		logger:        logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// FetchDocument implements [RemoteStore]. It GETs the contents endpoint with
// the configured branch as ref, decodes the base64 payload, and unmarshals it
// into a [models.Document]. The blob sha of the fetched revision is returned
// as the version. A 404 maps to [ErrDocumentAbsent].
func (g *gitHubStore) FetchDocument(ctx context.Context) (*models.Document, models.Version, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("ref", g.branch).
		Get(g.contentsPath)
	if err != nil {
		return nil, models.Version(""), fmt.Errorf("fetch document request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, models.Version(""), err
	}

	var cr contentsResponse
	if err = json.Unmarshal(resp.Body(), &cr); err != nil {
		return nil, models.Version(""), fmt.Errorf("decode contents response: %w", err)
	}

	raw, err := decodeContent(cr)
	if err != nil {
		return nil, models.Version(""), err
	}

	doc := &models.Document{}
	if err = json.Unmarshal(raw, doc); err != nil {
		return nil, models.Version(""), fmt.Errorf("decode document payload: %w", err)
	}

	g.logger.Debug().Str("version", cr.SHA).Msg("document fetched")
	return doc, models.Version(cr.SHA), nil
}

// SaveDocument implements [RemoteStore]. It PUTs the document as a new
// revision on the configured branch. When base is non-zero it is sent as the
// expected blob sha; a stale sha maps to [ErrVersionConflict]. When base is
// zero the request creates the document.
func (g *gitHubStore) SaveDocument(ctx context.Context, doc *models.Document, base models.Version) (models.Version, error) {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return models.Version(""), fmt.Errorf("encode document payload: %w", err)
	}

	req := saveRequest{
		Message: g.commitMessage,
		Content: base64.StdEncoding.EncodeToString(payload),
		Branch:  g.branch,
		SHA:     string(base),
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Put(g.contentsPath)
	if err != nil {
		return models.Version(""), fmt.Errorf("save document request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Version(""), err
	}

	var sr saveResponse
	if err = json.Unmarshal(resp.Body(), &sr); err != nil {
		return models.Version(""), fmt.Errorf("decode save response: %w", err)
	}

	g.logger.Debug().Str("version", sr.Content.SHA).Msg("document saved")
	return models.Version(sr.Content.SHA), nil
}

// VerifyCredential implements [RemoteStore]. It GETs /user with the
// configured token; [ErrUnauthorized] is returned when the store rejects it.
func (g *gitHubStore) VerifyCredential(ctx context.Context) error {
	resp, err := g.client.R().SetContext(ctx).Get("/user")
	if err != nil {
		return fmt.Errorf("verify credential request: %w", err)
	}

	return mapHTTPError(resp)
}

// ProbeConnectivity implements [RemoteStore]. The probe is the same
// authenticated /user round trip as VerifyCredential; a credential rejection
// counts as a failed probe too.
func (g *gitHubStore) ProbeConnectivity(ctx context.Context) error {
	return g.VerifyCredential(ctx)
}

func decodeContent(cr contentsResponse) ([]byte, error) {
	if cr.Encoding != "" && cr.Encoding != "base64" {
		return nil, fmt.Errorf("unsupported content encoding %q", cr.Encoding)
	}

	// The contents API wraps base64 lines with newlines.
	compact := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, cr.Content)

	raw, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil, fmt.Errorf("decode document content: %w", err)
	}
	return raw, nil
}
