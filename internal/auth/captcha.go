package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const recaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

type captchaResponse struct {
	Success bool     `json:"success"`
	Score   *float64 `json:"score"`
	Errors  []string `json:"error-codes"`
}

// VerifyCaptcha checks a reCAPTCHA token against Google. v3 responses carry
// a score; anything below 0.5 is treated as a bot, v2 responses have no
// score and pass on success alone.
func VerifyCaptcha(secret, token string) (bool, error) {
	resp, err := http.PostForm(recaptchaVerifyURL, url.Values{
		"secret":   {secret},
		"response": {token},
	})
	if err != nil {
		return false, fmt.Errorf("recaptcha verification request failed: %w", err)
	}
	defer resp.Body.Close()

	var result captchaResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("recaptcha verification response invalid: %w", err)
	}

	if !result.Success {
		return false, nil
	}
	if result.Score != nil && *result.Score < 0.5 {
		return false, nil
	}
	return true, nil
}
