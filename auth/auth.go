package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"brewhouse/activity"
	"brewhouse/db"
	"brewhouse/globals"
	"brewhouse/middleware"
	"brewhouse/models"
	"brewhouse/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type API struct {
	Log *activity.Logger
}

func NewAPI(logger *activity.Logger) *API {
	return &API{Log: logger}
}

func (a *API) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if body.Name == "" || body.Email == "" || len(body.Password) < 6 {
		utils.RespondWithError(w, http.StatusBadRequest, "Name, email and a password of at least 6 characters are required")
		return
	}

	err := db.UsersCollection.FindOne(ctx, bson.M{"email": body.Email}).Err()
	if err == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Email already registered")
		return
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		log.Println("Register lookup error:", err)
		http.Error(w, "Registration failed", http.StatusInternalServerError)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Println("Register bcrypt error:", err)
		http.Error(w, "Registration failed", http.StatusInternalServerError)
		return
	}

	user := models.User{
		UserID:       utils.GetUUID(),
		Name:         body.Name,
		Email:        body.Email,
		PasswordHash: string(hash),
		Role:         "user",
		CreatedAt:    time.Now(),
	}
	if _, err := db.UsersCollection.InsertOne(ctx, user); err != nil {
		log.Println("Register insert error:", err)
		http.Error(w, "Registration failed", http.StatusInternalServerError)
		return
	}

	a.Log.Log(models.ActivityUserRegister, "New user "+user.Name,
		map[string]any{"userId": user.UserID})
	utils.RespondWithJSON(w, http.StatusCreated, user)
}

func (a *API) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	var user models.User
	err := db.UsersCollection.FindOne(ctx, bson.M{"email": body.Email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		log.Println("Login lookup error:", err)
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	claims := middleware.Claims{
		Username: user.Name,
		UserID:   user.UserID,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(72 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	if err != nil {
		log.Println("Login sign error:", err)
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}

	a.Log.Log(models.ActivityUserLogin, "User "+user.Name+" logged in",
		map[string]any{"userId": user.UserID})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"token": token,
		"user":  user,
	})
}
