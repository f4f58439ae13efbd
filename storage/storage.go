// Package storage is the client's durable key/value store. It mirrors the
// browser's localStorage: string values under string keys, surviving restarts.
package storage

import (
	"encoding/json"
	"fmt"
)

// Keys the client persists
const (
	KeyUserInfo        = "userInfo"
	KeyCartItems       = "cartItems"
	KeyShippingAddress = "shippingAddress"
	KeyPaymentMethod   = "paymentMethod"
)

// LocalStorage holds string values by key
type LocalStorage interface {
	// GetItem returns the value for key; ok is false when the key is unset
	GetItem(key string) (value string, ok bool, err error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// GetJSON decodes the value under key into v. It reports false when the key is unset.
func GetJSON(s LocalStorage, key string, v interface{}) (bool, error) {
	raw, ok, err := s.GetItem(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores v under key as JSON
func SetJSON(s LocalStorage, key string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.SetItem(key, string(b))
}
