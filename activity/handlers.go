package activity

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"brewhouse/db"
	"brewhouse/models"
	"brewhouse/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetActivities returns the newest audit records, paginated, for the admin
// activity screen.
func GetActivities(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	skip := (page - 1) * limit

	findOptions := options.Find().
		SetSort(bson.M{"timestamp": -1}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := db.ActivitiesCollection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		log.Println("GetActivities Find error:", err)
		http.Error(w, "Failed to fetch activities", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var activities []models.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		log.Println("GetActivities cursor.All error:", err)
		http.Error(w, "Failed to decode activities", http.StatusInternalServerError)
		return
	}
	if activities == nil {
		activities = []models.Activity{}
	}

	total, err := db.ActivitiesCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Println("GetActivities CountDocuments error:", err)
		http.Error(w, "Failed to count activities", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"activities": activities,
		"pagination": utils.M{
			"total": total,
			"page":  page,
			"limit": limit,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}
