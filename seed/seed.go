// Package seed holds the starter users and catalogue served by the /seed endpoints.
package seed

import (
	_ "embed"
	"fmt"

	"go-storefront/models"
	"go-storefront/utils"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

type seedUser struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	IsAdmin  bool   `yaml:"isAdmin"`
}

// Data is the parsed seed file
type Data struct {
	Users    []seedUser       `yaml:"users"`
	Products []models.Product `yaml:"products"`
}

// Load parses the embedded seed file
func Load() (*Data, error) {
	return Parse(seedYAML)
}

// Parse reads seed data from YAML
func Parse(b []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return &d, nil
}

// UserModels returns the seed users with their passwords hashed
func (d *Data) UserModels() ([]models.User, error) {
	users := make([]models.User, 0, len(d.Users))
	for _, u := range d.Users {
		hashed, err := utils.HashPassword(u.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", u.Email, err)
		}
		users = append(users, models.User{
			Name:     u.Name,
			Email:    u.Email,
			Password: hashed,
			IsAdmin:  u.IsAdmin,
		})
	}
	return users, nil
}
