package controllers

import (
	"net/http"
)

// ConfigController exposes client configuration
type ConfigController struct {
	PaypalClientID string
}

// GetPaypalClientID answers with the PayPal client id as plain text
func (cc *ConfigController) GetPaypalClientID(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(cc.PaypalClientID))
}

// Health reports that the server is up
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
