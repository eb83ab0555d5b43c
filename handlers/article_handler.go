package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"association-backend/constants"
	"association-backend/database"
	"association-backend/middleware"
	"association-backend/models"
	"association-backend/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ArticleHandler gère le blog de l'association
type ArticleHandler struct {
	articleRepo *database.ArticleRepository
	userRepo    *database.UserRepository
}

// NewArticleHandler crée une nouvelle instance de ArticleHandler
func NewArticleHandler(db *mongo.Database) *ArticleHandler {
	return &ArticleHandler{
		articleRepo: database.NewArticleRepository(db),
		userRepo:    database.NewUserRepository(db),
	}
}

// GetPublicArticles retourne les articles publiés (PUBLIC)
func (h *ArticleHandler) GetPublicArticles(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	articles, err := h.articleRepo.FindPublished()
	if err != nil {
		log.Printf("Erreur lors de la récupération des articles: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if articles == nil {
		articles = []models.Article{}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"articles": articles,
	})
}

// GetPublicArticle retourne un article publié par son slug (PUBLIC)
func (h *ArticleHandler) GetPublicArticle(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	slug := mux.Vars(r)["slug"]
	article, err := h.articleRepo.FindBySlug(slug)
	if err != nil {
		log.Printf("Erreur lors de la récupération de l'article: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if article == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrArticleNotFound)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"article": article,
	})
}

// GetAllArticles retourne tous les articles, brouillons compris (ADMIN)
func (h *ArticleHandler) GetAllArticles(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	articles, err := h.articleRepo.FindAll()
	if err != nil {
		log.Printf("Erreur lors de la récupération des articles: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if articles == nil {
		articles = []models.Article{}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"articles": articles,
		"total":    len(articles),
	})
}

// CreateArticle crée un article (ADMIN)
func (h *ArticleHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.CreateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidJSONBody)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = utils.Slugify(req.Title)
	}

	// L'auteur est l'admin connecté
	author := "L'équipe"
	if claims := middleware.GetUserFromContext(r.Context()); claims != nil {
		if user, err := h.userRepo.FindByEmail(claims.Email); err == nil && user != nil {
			author = user.Firstname + " " + user.Lastname
		}
	}

	article := &models.Article{
		Title:       req.Title,
		Slug:        slug,
		Content:     req.Content,
		Excerpt:     req.Excerpt,
		Author:      author,
		CoverImage:  req.CoverImage,
		IsPublished: req.IsPublished,
	}

	if err := h.articleRepo.Create(article); err != nil {
		// Index unique sur le slug
		log.Printf("Erreur lors de la création de l'article: %v", err)
		utils.RespondError(w, http.StatusConflict, "Un article avec ce slug existe déjà")
		return
	}

	log.Printf("✓ Article créé: %s (%s)", article.Title, article.Slug)
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"article": article,
	})
}

// UpdateArticle modifie un article (ADMIN)
func (h *ArticleHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	articleID, ok := ParseObjectIDVar(w, mux.Vars(r), "article_id", constants.ErrInvalidArticleID)
	if !ok {
		return
	}

	var req models.UpdateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidJSONBody)
		return
	}

	article, err := h.articleRepo.FindByID(articleID)
	if err != nil {
		log.Printf("Erreur lors de la recherche de l'article: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if article == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrArticleNotFound)
		return
	}

	update := bson.M{}
	if req.Title != "" {
		update["title"] = req.Title
	}
	if req.Content != "" {
		update["content"] = req.Content
	}
	if req.Excerpt != "" {
		update["excerpt"] = req.Excerpt
	}
	if req.CoverImage != "" {
		update["cover_image"] = req.CoverImage
	}
	if req.IsPublished != nil {
		update["is_published"] = *req.IsPublished
		// Première publication : fixer la date
		if *req.IsPublished && article.PublishedAt == nil {
			update["published_at"] = time.Now()
		}
	}

	if len(update) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "Aucun champ à modifier")
		return
	}

	if err := h.articleRepo.Update(articleID, update); err != nil {
		log.Printf("Erreur lors de la mise à jour de l'article: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	updated, err := h.articleRepo.FindByID(articleID)
	if err != nil || updated == nil {
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	utils.RespondSuccess(w, "Article mis à jour", updated)
}

// DeleteArticle supprime un article (ADMIN)
func (h *ArticleHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	articleID, ok := ParseObjectIDVar(w, mux.Vars(r), "article_id", constants.ErrInvalidArticleID)
	if !ok {
		return
	}

	article, err := h.articleRepo.FindByID(articleID)
	if err != nil {
		log.Printf("Erreur lors de la recherche de l'article: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if article == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrArticleNotFound)
		return
	}

	if err := h.articleRepo.Delete(articleID); err != nil {
		log.Printf("Erreur lors de la suppression de l'article: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Article supprimé: %s", article.Title)
	utils.RespondSuccess(w, "Article supprimé", nil)
}
