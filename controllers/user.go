package controllers

import (
	"context"
	"net/http"
	"time"

	"go-storefront/apperr"
	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/seed"
	"go-storefront/store"
	"go-storefront/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserController handles user-related requests
type UserController struct {
	Users store.UserStore
}

// NewUserController creates a new UserController
func NewUserController(users store.UserStore) *UserController {
	return &UserController{Users: users}
}

// SeedUsers inserts the starter accounts
func (uc *UserController) SeedUsers(w http.ResponseWriter, r *http.Request) {
	data, err := seed.Load()
	if err != nil {
		apperr.Write(w, err)
		return
	}
	users, err := data.UserModels()
	if err != nil {
		apperr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	created, err := uc.Users.InsertMany(ctx, users)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"createdUsers": created})
}

// Signin handles user authentication
func (uc *UserController) Signin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &creds); err != nil {
		apperr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	user, err := uc.Users.FindByEmail(ctx, creds.Email)
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		apperr.Write(w, err)
		return
	}
	if user == nil || !utils.CheckPassword(user.Password, creds.Password) {
		apperr.Write(w, apperr.Auth("Invalid email or password"))
		return
	}

	info, err := utils.UserInfo(user)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &input); err != nil {
		apperr.Write(w, err)
		return
	}
	if input.Name == "" || input.Email == "" || input.Password == "" {
		apperr.Write(w, apperr.Validation("Name, email and password are required"))
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	user := &models.User{Name: input.Name, Email: input.Email, Password: hashed}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := uc.Users.Create(ctx, user); err != nil {
		apperr.Write(w, err)
		return
	}

	info, err := utils.UserInfo(user)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

// GetUser returns a public profile
func (uc *UserController) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "User")
	if err != nil {
		apperr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	user, err := uc.Users.FindByID(ctx, id)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile changes the caller's name, email or password and hands back a
// fresh token
func (uc *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		apperr.Write(w, apperr.Auth("No Token"))
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		apperr.Write(w, apperr.Auth("Invalid Token"))
		return
	}

	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &input); err != nil {
		apperr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	user, err := uc.Users.FindByID(ctx, userID)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Password != "" {
		if user.Password, err = utils.HashPassword(input.Password); err != nil {
			apperr.Write(w, err)
			return
		}
	}
	if err := uc.Users.Update(ctx, user); err != nil {
		apperr.Write(w, err)
		return
	}

	info, err := utils.UserInfo(user)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
