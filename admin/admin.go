package admin

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"brewhouse/activity"
	"brewhouse/db"
	"brewhouse/models"
	"brewhouse/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// API carries the back-office user administration handlers.
type API struct {
	Log *activity.Logger
}

func NewAPI(logger *activity.Logger) *API {
	return &API{Log: logger}
}

func (a *API) ListUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.UsersCollection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		log.Println("ListUsers Find error:", err)
		http.Error(w, "Could not retrieve users", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		log.Println("ListUsers cursor.All error:", err)
		http.Error(w, "Error reading users", http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	utils.RespondWithJSON(w, http.StatusOK, users)
}

func (a *API) findUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := db.UsersCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *API) VerifyUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := ps.ByName("userid")
	user, err := a.findUser(ctx, userID)
	if err != nil {
		log.Println("VerifyUser lookup error:", err)
		http.Error(w, "Verification failed", http.StatusInternalServerError)
		return
	}
	if user == nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	if _, err := db.UsersCollection.UpdateOne(ctx, bson.M{"userId": userID},
		bson.M{"$set": bson.M{"isVerified": true}}); err != nil {
		log.Println("VerifyUser update error:", err)
		http.Error(w, "Verification failed", http.StatusInternalServerError)
		return
	}
	user.IsVerified = true

	a.Log.Log(models.ActivityUserVerify, "Verified user "+user.Name,
		map[string]any{"userId": userID})
	utils.RespondWithJSON(w, http.StatusOK, user)
}

func (a *API) UpdateUserRole(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var body struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || (body.Role != "user" && body.Role != "admin") {
		utils.RespondWithError(w, http.StatusBadRequest, "Role must be user or admin")
		return
	}

	userID := ps.ByName("userid")
	user, err := a.findUser(ctx, userID)
	if err != nil {
		log.Println("UpdateUserRole lookup error:", err)
		http.Error(w, "Role update failed", http.StatusInternalServerError)
		return
	}
	if user == nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	oldRole := user.Role
	if _, err := db.UsersCollection.UpdateOne(ctx, bson.M{"userId": userID},
		bson.M{"$set": bson.M{"role": body.Role}}); err != nil {
		log.Println("UpdateUserRole update error:", err)
		http.Error(w, "Role update failed", http.StatusInternalServerError)
		return
	}
	user.Role = body.Role

	a.Log.Log(models.ActivityUserUpdate,
		"Changed role of "+user.Name+" from "+oldRole+" to "+user.Role,
		map[string]any{"userId": userID, "oldRole": oldRole, "newRole": user.Role})
	utils.RespondWithJSON(w, http.StatusOK, user)
}

func (a *API) UpdateUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	allowed := map[string]bool{
		"name": true, "email": true, "phone": true, "address": true,
		"profileImage": true, "role": true, "isVerified": true,
	}
	update := bson.M{}
	for k, v := range body {
		if allowed[k] {
			update[k] = v
		}
	}
	if len(update) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "No updatable fields supplied")
		return
	}

	userID := ps.ByName("userid")
	res := db.UsersCollection.FindOneAndUpdate(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After))

	var user models.User
	if err := res.Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Println("UpdateUser error:", err)
		http.Error(w, "User update failed", http.StatusInternalServerError)
		return
	}

	a.Log.Log(models.ActivityUserUpdate, "Updated user "+user.Name,
		map[string]any{"userId": userID})
	utils.RespondWithJSON(w, http.StatusOK, user)
}

func (a *API) DeleteUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := ps.ByName("userid")
	user, err := a.findUser(ctx, userID)
	if err != nil {
		log.Println("DeleteUser lookup error:", err)
		http.Error(w, "User deletion failed", http.StatusInternalServerError)
		return
	}
	if user == nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	if _, err := db.UsersCollection.DeleteOne(ctx, bson.M{"userId": userID}); err != nil {
		log.Println("DeleteUser error:", err)
		http.Error(w, "User deletion failed", http.StatusInternalServerError)
		return
	}

	a.Log.Log(models.ActivityUserDelete, "Deleted user "+user.Name,
		map[string]any{"userId": userID})
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}
