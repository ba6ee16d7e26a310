package catalog

import (
	"context"
	"encoding/json"
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

// API carries the catalog handlers and their collaborators.
type API struct {
	Log *activity.Logger
}

func NewAPI(logger *activity.Logger) *API {
	return &API{Log: logger}
}

func (a *API) ListProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if cat := r.URL.Query().Get("category"); cat != "" {
		filter["category"] = cat
	}

	cursor, err := db.ProductsCollection.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		log.Println("ListProducts Find error:", err)
		http.Error(w, "Could not retrieve products", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		log.Println("ListProducts cursor.All error:", err)
		http.Error(w, "Error reading products", http.StatusInternalServerError)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	utils.RespondWithJSON(w, http.StatusOK, products)
}

func (a *API) GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	err := db.ProductsCollection.FindOne(ctx, bson.M{"productId": ps.ByName("productid")}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.Println("GetProduct FindOne error:", err)
		http.Error(w, "Could not retrieve product", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, product)
}

func (a *API) CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if product.Name == "" || product.Price < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing or invalid fields")
		return
	}

	product.ProductID = utils.NewProductID()
	product.CreatedBy = utils.GetUserIDFromRequest(r)
	product.IsActive = true
	product.CreatedAt = time.Now()
	if product.Images == nil {
		product.Images = []string{}
	}

	if _, err := db.ProductsCollection.InsertOne(ctx, product); err != nil {
		log.Println("CreateProduct InsertOne error:", err)
		http.Error(w, "Product creation failed", http.StatusInternalServerError)
		return
	}

	a.Log.Log(models.ActivityProductCreate, "Created product "+product.Name,
		map[string]any{"productId": product.ProductID})
	utils.RespondWithJSON(w, http.StatusCreated, product)
}

func (a *API) UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("productid")

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	allowed := map[string]bool{
		"name": true, "description": true, "price": true, "discountPrice": true,
		"category": true, "stock": true, "images": true, "isActive": true,
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

	res := db.ProductsCollection.FindOneAndUpdate(ctx,
		bson.M{"productId": productID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After))

	var product models.Product
	if err := res.Decode(&product); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Println("UpdateProduct error:", err)
		http.Error(w, "Product update failed", http.StatusInternalServerError)
		return
	}

	activityType := models.ActivityProductUpdate
	if _, ok := update["stock"]; ok && len(update) == 1 {
		activityType = models.ActivityProductStock
	}
	a.Log.Log(activityType, "Updated product "+product.Name,
		map[string]any{"productId": productID})
	utils.RespondWithJSON(w, http.StatusOK, product)
}

func (a *API) DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("productid")
	res, err := db.ProductsCollection.DeleteOne(ctx, bson.M{"productId": productID})
	if err != nil {
		log.Println("DeleteProduct error:", err)
		http.Error(w, "Product deletion failed", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	a.Log.Log(models.ActivityProductDelete, "Deleted product "+productID,
		map[string]any{"productId": productID})
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}
