package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/xuci-prep/backend/internal/database"
	"github.com/xuci-prep/backend/internal/paper"
	"github.com/xuci-prep/backend/internal/seed"
	"github.com/xuci-prep/backend/internal/students"
)

func main() {
	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db, database.Driver()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	paperStore := paper.NewStore(db)
	paperService := paper.NewService(paperStore)
	paperHandler := paper.NewHandler(paperStore, paperService)
	studentHandler := students.NewHandler(students.NewStore(db))

	// Seed the inventory on first boot when requested
	if seedFile := os.Getenv("SEED_FILE"); seedFile != "" {
		if err := seed.ImportFile(context.Background(), paperStore, seedFile); err != nil {
			log.Fatalf("Seed import failed: %v", err)
		}
	}

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Usage inventory
	api.HandleFunc("/usages", paperHandler.ListUsages).Methods("GET")
	api.HandleFunc("/usages", paperHandler.CreateUsage).Methods("POST")
	api.HandleFunc("/usages/{id}", paperHandler.GetUsage).Methods("GET")
	api.HandleFunc("/usages/{id}", paperHandler.UpdateUsage).Methods("PUT")
	api.HandleFunc("/usages/{id}", paperHandler.DeleteUsage).Methods("DELETE")

	// Example sentences
	api.HandleFunc("/sentences", paperHandler.ListSentences).Methods("GET")
	api.HandleFunc("/sentences", paperHandler.CreateSentence).Methods("POST")
	api.HandleFunc("/sentences/batch", paperHandler.BatchSentences).Methods("POST")
	api.HandleFunc("/sentences/detect", paperHandler.DetectWords).Methods("POST")
	api.HandleFunc("/sentences/{id}", paperHandler.DeleteSentence).Methods("DELETE")

	// Papers
	api.HandleFunc("/papers", paperHandler.ListPapers).Methods("GET")
	api.HandleFunc("/papers", paperHandler.AssemblePaper).Methods("POST")
	api.HandleFunc("/papers/{id}", paperHandler.GetPaper).Methods("GET")
	api.HandleFunc("/papers/{id}", paperHandler.DeletePaper).Methods("DELETE")
	api.HandleFunc("/papers/{id}/export", paperHandler.ExportPaper).Methods("GET")

	// Students and answers
	api.HandleFunc("/students", studentHandler.ListStudents).Methods("GET")
	api.HandleFunc("/students", studentHandler.CreateStudent).Methods("POST")
	api.HandleFunc("/students/{id}/answers", studentHandler.ListAnswers).Methods("GET")
	api.HandleFunc("/questions/{id}/answer", studentHandler.SubmitAnswer).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
