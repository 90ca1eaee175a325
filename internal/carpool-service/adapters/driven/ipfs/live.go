package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"decarpool/internal/carpool-service/core/myerrors"
	"decarpool/internal/carpool-service/core/ports"
	"decarpool/internal/config"
	"decarpool/internal/mylogger"
)

// LiveStore stores snapshots on an IPFS-style content-addressed gateway:
// uploads go to the API endpoint, retrieval goes through the public
// gateway by content id.
type LiveStore struct {
	cfg    *config.IPFSconfig
	mylog  mylogger.Logger
	client *http.Client
}

// NewLiveStore probes the API once; a failed probe is the caller's cue
// to fall back to the simulated store.
func NewLiveStore(ctx context.Context, cfg *config.IPFSconfig, mylog mylogger.Logger) (ports.IContentStore, error) {
	s := &LiveStore{
		cfg:   cfg,
		mylog: mylog,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(cfg.APIURL, "/")+"/version", nil)
	if err != nil {
		return nil, err
	}
	s.setAuth(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("content store probe: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("content store probe: status %d", resp.StatusCode)
	}

	mylog.Info("connected to content store", "api", cfg.APIURL)
	return s, nil
}

func (s *LiveStore) Put(ctx context.Context, data []byte) (string, error) {
	log := s.mylog.Action("content_put")

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	part, err := writer.CreateFormFile("file", "data.json")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(s.cfg.APIURL, "/")+"/add", &form)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	s.setAuth(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", myerrors.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: status %d: %s", myerrors.ErrStoreUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result struct {
		Hash string `json:"Hash"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: parsing upload response: %v", myerrors.ErrStoreUnavailable, err)
	}

	log.Info("snapshot stored", "content_id", result.Hash)
	return result.Hash, nil
}

func (s *LiveStore) Get(ctx context.Context, contentID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.GatewayURL+contentID, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", myerrors.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, myerrors.ErrContentNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", myerrors.ErrStoreUnavailable, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func (s *LiveStore) setAuth(req *http.Request) {
	if s.cfg.ProjectID != "" {
		req.SetBasicAuth(s.cfg.ProjectID, s.cfg.APISecret)
	}
}
