package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"humanity-verse-backend/middleware"
	"humanity-verse-backend/models"
)

// Handlers regroupe les handlers montés par RegisterRoutes
type Handlers struct {
	Health     *HealthHandler
	Site       *SiteHandler
	Auth       *AuthHandler
	Gallery    *GalleryHandler
	Statistics *StatisticsHandler
	Contact    *ContactHandler
	Donation   *DonationHandler
}

// RegisterRoutes monte les routes publiques et admin sur le routeur
func RegisterRoutes(router *mux.Router, h Handlers, authorizer middleware.SessionAuthorizer) {
	guest := middleware.Guest(authorizer)

	// Routes publiques
	router.HandleFunc("/api/health", h.Health.Health).Methods("GET")
	router.HandleFunc("/api/site/config", h.Site.Config).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/gallery/images", h.Gallery.List(models.KindImage)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/gallery/videos", h.Gallery.List(models.KindVideo)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/gallery/latest", h.Gallery.Latest).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/statistics", h.Statistics.Get).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/contact", h.Contact.Contact).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/newsletter/subscribe", h.Contact.Subscribe).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/donations/checkout", h.Donation.Checkout).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/donations/callback", h.Donation.Callback).Methods("GET")
	router.HandleFunc("/api/donations/webhook", h.Donation.Webhook).Methods("POST")
	router.Handle("/api/auth/login", guest(http.HandlerFunc(h.Auth.Login))).Methods("POST", "OPTIONS")

	// Routes protégées (session admin)
	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(middleware.Auth(authorizer))

	protected.HandleFunc("/auth/logout", h.Auth.Logout).Methods("POST", "OPTIONS")
	protected.HandleFunc("/auth/me", h.Auth.Me).Methods("GET", "OPTIONS")

	protected.HandleFunc("/admin/gallery", h.Gallery.Dashboard).Methods("GET", "OPTIONS")
	protected.HandleFunc("/admin/gallery/images", h.Gallery.UploadImage).Methods("POST", "OPTIONS")
	protected.HandleFunc("/admin/gallery/videos", h.Gallery.AddVideo).Methods("POST", "OPTIONS")
	protected.HandleFunc("/admin/gallery/{kind}/{id}/delete-request", h.Gallery.RequestDeletion).Methods("POST", "OPTIONS")
	protected.HandleFunc("/admin/deletions/{token}/confirm", h.Gallery.ConfirmDeletion).Methods("POST", "OPTIONS")
	protected.HandleFunc("/admin/deletions/{token}", h.Gallery.CancelDeletion).Methods("DELETE", "OPTIONS")

	protected.HandleFunc("/admin/statistics", h.Statistics.Get).Methods("GET", "OPTIONS")
	protected.HandleFunc("/admin/statistics", h.Statistics.Update).Methods("PUT", "OPTIONS")
}
