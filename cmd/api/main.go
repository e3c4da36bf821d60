package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.temporal.io/sdk/client"

	"github.com/yourorg/site-deploy/internal/api"
	"github.com/yourorg/site-deploy/internal/config"
)

func main() {
	cfg := config.FromEnv()

	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Initialize Temporal client
	temporalClient, err := client.Dial(client.Options{
		HostPort:  getEnv("TEMPORAL_ADDRESS", "localhost:7233"),
		Namespace: getEnv("TEMPORAL_NAMESPACE", "default"),
	})
	if err != nil {
		log.Printf("Warning: Failed to connect to Temporal: %v", err)
		// Continue without Temporal for now
	}
	if temporalClient != nil {
		defer temporalClient.Close()
	}

	// API routes
	apiV1 := r.Group("/api/v1")
	{
		if temporalClient != nil {
			workflowHandler := api.NewWorkflowHandler(temporalClient, getEnv("TEMPORAL_TASK_QUEUE", "site-deploy"))
			apiV1.POST("/deployments", workflowHandler.StartDeployment)
			apiV1.GET("/deployments/:id/status", workflowHandler.GetDeploymentStatus)
		}
		// The journal is opened read-only per request, so the worker writing
		// runs into the same directory is never locked out.
		historyHandler := api.NewHistoryHandler(cfg.JournalDir)
		apiV1.GET("/history", historyHandler.GetHistory)
	}

	// Start server
	port := getEnv("PORT", "8080")
	log.Printf("Server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
