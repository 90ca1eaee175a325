package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"decarpool/internal/carpool-service/core/domain/dto"
	"decarpool/internal/carpool-service/core/myerrors"
	"decarpool/internal/carpool-service/core/ports"
	"decarpool/internal/config"
	"decarpool/internal/mylogger"
)

const probeTimeout = 5 * time.Second

// LiveClient talks to the external ledger through its HTTP gateway. Every
// write estimates the resource cost first, submits the call, then blocks
// until the gateway reports confirmation (bounded by the configured
// timeout). Submission and confirmation errors come back as typed
// failures, they never escape the client boundary as anything else.
type LiveClient struct {
	cfg    *config.Ledgerconfig
	mylog  mylogger.Logger
	client *http.Client
	base   string
}

// NewLiveClient probes the gateway once. A failed probe is returned to
// the caller so it can route to the simulated client instead; the switch
// happens at initialization, not per call.
func NewLiveClient(ctx context.Context, cfg *config.Ledgerconfig, mylog mylogger.Logger) (ports.ILedgerClient, error) {
	timeout := time.Duration(cfg.ConfirmTimeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &LiveClient{
		cfg:   cfg,
		mylog: mylog,
		client: &http.Client{
			Timeout: timeout,
		},
		base: fmt.Sprintf("%s/contracts/%s",
			strings.TrimSuffix(cfg.NodeURL, "/"), cfg.ContractAddress),
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, strings.TrimSuffix(cfg.NodeURL, "/")+"/health", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ledger gateway probe: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ledger gateway probe: status %d", resp.StatusCode)
	}

	mylog.Info("connected to ledger gateway", "url", cfg.NodeURL, "contract", cfg.ContractAddress)
	return c, nil
}

type createRideCall struct {
	Owner         string  `json:"owner"`
	StartLocation string  `json:"start_location"`
	EndLocation   string  `json:"end_location"`
	Price         float64 `json:"price"`
	Seats         int     `json:"seats"`
}

type estimateResponse struct {
	Gas int64 `json:"gas"`
}

func (c *LiveClient) CreateRide(ctx context.Context, ownerAddr, start, end string, price float64, seats int) (dto.LedgerCreated, error) {
	log := c.mylog.Action("ledger_create_ride")

	call := createRideCall{
		Owner:         ownerAddr,
		StartLocation: start,
		EndLocation:   end,
		Price:         price,
		Seats:         seats,
	}

	var est estimateResponse
	if err := c.do(ctx, http.MethodPost, c.base+"/rides/estimate", call, &est); err != nil {
		return dto.LedgerCreated{}, err
	}

	var out dto.LedgerCreated
	if err := c.do(ctx, http.MethodPost, c.base+"/rides", call, &out); err != nil {
		return dto.LedgerCreated{}, err
	}

	log.Info("ride created on ledger", "external_ride_id", out.ExternalRideID, "tx_ref", out.TxRef, "gas", est.Gas)
	return out, nil
}

func (c *LiveClient) BookRide(ctx context.Context, buyerAddr string, externalRideID int64, totalPrice float64) (string, error) {
	log := c.mylog.Action("ledger_book_ride")

	call := map[string]any{
		"buyer":       buyerAddr,
		"total_price": totalPrice,
	}

	var out struct {
		TxRef string `json:"tx_hash"`
	}
	url := fmt.Sprintf("%s/rides/%d/bookings", c.base, externalRideID)
	if err := c.do(ctx, http.MethodPost, url, call, &out); err != nil {
		return "", err
	}

	log.Info("ride booked on ledger", "external_ride_id", externalRideID, "tx_ref", out.TxRef)
	return out.TxRef, nil
}

func (c *LiveClient) CompleteRide(ctx context.Context, ownerAddr string, externalRideID int64) (string, error) {
	log := c.mylog.Action("ledger_complete_ride")

	call := map[string]any{
		"owner": ownerAddr,
	}

	var out struct {
		TxRef string `json:"tx_hash"`
	}
	url := fmt.Sprintf("%s/rides/%d/complete", c.base, externalRideID)
	if err := c.do(ctx, http.MethodPost, url, call, &out); err != nil {
		return "", err
	}

	log.Info("ride completed on ledger", "external_ride_id", externalRideID, "tx_ref", out.TxRef)
	return out.TxRef, nil
}

func (c *LiveClient) GetRide(ctx context.Context, externalRideID int64) (dto.LedgerRideView, error) {
	var out dto.LedgerRideView
	url := fmt.Sprintf("%s/rides/%d", c.base, externalRideID)
	if err := c.do(ctx, http.MethodGet, url, nil, &out); err != nil {
		if se, ok := err.(*statusError); ok && se.code == http.StatusNotFound {
			return dto.LedgerRideView{}, myerrors.ErrRideNotFound
		}
		return dto.LedgerRideView{}, err
	}
	return out, nil
}

// statusError carries the gateway status so callers can special-case 404.
// Is() makes it match the taxonomy sentinels through errors.Is.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("ledger gateway: status %d: %s", e.code, e.body)
}

func (e *statusError) Is(target error) bool {
	if e.code >= 500 {
		return target == myerrors.ErrLedgerUnavailable
	}
	return target == myerrors.ErrRemoteRejected
}

func (c *LiveClient) do(ctx context.Context, method, url string, body, out any) error {
	var bodyBytes []byte
	var err error

	if body != nil {
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewBuffer(bodyBytes))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// network failure or confirmation timeout
		return fmt.Errorf("%w: %v", myerrors.ErrLedgerUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", myerrors.ErrLedgerUnavailable, err)
	}

	if resp.StatusCode >= 400 {
		return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(data))}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%w: parsing confirmation: %v", myerrors.ErrRemoteRejected, err)
		}
	}
	return nil
}
