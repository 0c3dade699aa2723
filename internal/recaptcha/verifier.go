package recaptcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Verifier проверяет токен капчи
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

// GoogleVerifier - проверка через reCAPTCHA siteverify API
type GoogleVerifier struct {
	secretKey string
	verifyURL string
	client    *http.Client
}

func NewGoogleVerifier(secretKey, verifyURL string) *GoogleVerifier {
	return &GoogleVerifier{
		secretKey: secretKey,
		verifyURL: verifyURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify отправляет токен на siteverify и возвращает результат проверки
func (v *GoogleVerifier) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	form := url.Values{}
	form.Set("secret", v.secretKey)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("build recaptcha request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("recaptcha request failed: %w", err)
	}
	defer resp.Body.Close()

	var result siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("decode recaptcha response: %w", err)
	}

	return result.Success, nil
}
