package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client drives the Daraja (M-Pesa) gateway: OAuth token exchange, STK
// push initiation and callback URL registration. The push is
// fire-and-forget; checkout never blocks on the gateway's async
// callback.
type Client struct {
	BaseURL     string
	ConsumerKey string
	Secret      string
	ShortCode   string
	Passkey     string
	CallbackURL string
	HTTP        *http.Client

	now func() time.Time
}

func NewClient(baseURL, key, secret, shortCode, passkey, callbackURL string) *Client {
	return &Client{
		BaseURL:     baseURL,
		ConsumerKey: key,
		Secret:      secret,
		ShortCode:   shortCode,
		Passkey:     passkey,
		CallbackURL: callbackURL,
		HTTP:        &http.Client{Timeout: 30 * time.Second},
		now:         time.Now,
	}
}

// Token exchanges the basic-auth client credentials for a bearer token.
func (c *Client) Token(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.BaseURL+"/oauth/v1/generate?grant_type=client_credentials", nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.ConsumerKey, c.Secret)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("daraja token: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("daraja token: status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("daraja token: decode: %w", err)
	}
	return body.AccessToken, nil
}

// Password builds the STK push password: base64 of
// shortCode+passkey+timestamp, timestamp formatted YYYYMMDDHHMMSS.
func Password(shortCode, passkey string, t time.Time) (password, timestamp string) {
	timestamp = t.Format("20060102150405")
	password = base64.StdEncoding.EncodeToString([]byte(shortCode + passkey + timestamp))
	return password, timestamp
}

type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// STKPush asks the gateway to prompt the customer's phone for PIN
// entry. Amount is in whole KES; phone is the canonical dial-code form.
func (c *Client) STKPush(ctx context.Context, amount int, phone, reference string) (*STKPushResponse, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	password, timestamp := Password(c.ShortCode, c.Passkey, c.now())
	payload := map[string]any{
		"BusinessShortCode": c.ShortCode,
		"Password":          password,
		"Timestamp":         timestamp,
		"TransactionType":   "CustomerPayBillOnline",
		"Amount":            amount,
		"PartyA":            phone,
		"PartyB":            c.ShortCode,
		"PhoneNumber":       phone,
		"CallBackURL":       c.CallbackURL,
		"AccountReference":  reference,
		"TransactionDesc":   "MinoxidilKe order",
	}

	var out STKPushResponse
	if err := c.post(ctx, "/mpesa/stkpush/v1/processrequest", token, payload, &out); err != nil {
		return nil, err
	}
	if out.ResponseCode != "0" {
		return &out, fmt.Errorf("stk push rejected: %s", out.ResponseDescription)
	}
	return &out, nil
}

// RegisterURL registers the confirmation/validation callbacks the
// gateway will invoke asynchronously.
func (c *Client) RegisterURL(ctx context.Context, confirmationURL, validationURL string) error {
	token, err := c.Token(ctx)
	if err != nil {
		return err
	}
	payload := map[string]any{
		"ShortCode":       c.ShortCode,
		"ResponseType":    "Completed",
		"ConfirmationURL": confirmationURL,
		"ValidationURL":   validationURL,
	}
	return c.post(ctx, "/mpesa/c2b/v1/registerurl", token, payload, nil)
}

func (c *Client) post(ctx context.Context, path, token string, payload, out any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("daraja %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("daraja %s: status %d", path, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("daraja %s: decode: %w", path, err)
		}
	}
	return nil
}
