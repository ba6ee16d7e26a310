package catalog

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"brewhouse/db"
	"brewhouse/models"
	"brewhouse/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

var supportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

const productPicDir = "static/productpic"

// UploadImage accepts one multipart image, normalizes it to a 500x500 fill
// crop and attaches its URL to the product.
func (a *API) UploadImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	productID := ps.ByName("productid")

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	if !supportedImageTypes[header.Header.Get("Content-Type")] {
		utils.RespondWithError(w, http.StatusBadRequest, "Unsupported image type")
		return
	}

	img, err := imaging.Decode(file)
	if err != nil {
		log.Println("UploadImage decode error:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Could not decode image")
		return
	}
	img = imaging.Fill(img, 500, 500, imaging.Center, imaging.Lanczos)

	if err := os.MkdirAll(productPicDir, 0o755); err != nil {
		log.Println("UploadImage mkdir error:", err)
		http.Error(w, "Image save failed", http.StatusInternalServerError)
		return
	}
	name := productID + "-" + utils.GenerateRandomString(8) + ".jpg"
	if err := imaging.Save(img, filepath.Join(productPicDir, name)); err != nil {
		log.Println("UploadImage save error:", err)
		http.Error(w, "Image save failed", http.StatusInternalServerError)
		return
	}

	imageURL := "/static/productpic/" + name
	res, err := db.ProductsCollection.UpdateOne(ctx,
		bson.M{"productId": productID},
		bson.M{"$push": bson.M{"images": imageURL}})
	if err != nil {
		log.Println("UploadImage update error:", err)
		http.Error(w, "Product update failed", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	a.Log.Log(models.ActivityProductUpdate, "Uploaded image for product "+productID,
		map[string]any{"productId": productID, "image": imageURL})
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"image": imageURL})
}
