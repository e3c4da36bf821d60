package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.temporal.io/sdk/client"

	"github.com/yourorg/site-deploy/internal/types"
)

type WorkflowHandler struct {
	temporalClient client.Client
	taskQueue      string
}

func NewWorkflowHandler(temporalClient client.Client, taskQueue string) *WorkflowHandler {
	return &WorkflowHandler{temporalClient: temporalClient, taskQueue: taskQueue}
}

type StartDeploymentRequest struct {
	Bucket      string `json:"bucket" binding:"required"`
	SiteDir     string `json:"site_dir" binding:"required"`
	IndexDoc    string `json:"index_doc"`
	ErrorDoc    string `json:"error_doc"`
	Concurrency int    `json:"concurrency"`
}

type StartDeploymentResponse struct {
	WorkflowID string `json:"workflow_id"`
	RunID      string `json:"run_id"`
}

// StartDeployment starts a DeployWorkflow for the requested bucket.
func (h *WorkflowHandler) StartDeployment(c *gin.Context) {
	var req StartDeploymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := types.DeployParams{
		Bucket:      req.Bucket,
		SiteDir:     req.SiteDir,
		IndexDoc:    req.IndexDoc,
		ErrorDoc:    req.ErrorDoc,
		Concurrency: req.Concurrency,
	}

	options := client.StartWorkflowOptions{
		TaskQueue: h.taskQueue,
	}

	workflowRun, err := h.temporalClient.ExecuteWorkflow(
		c.Request.Context(),
		options,
		"DeployWorkflow", // Must match the registered workflow name
		params,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start workflow: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, StartDeploymentResponse{
		WorkflowID: workflowRun.GetID(),
		RunID:      workflowRun.GetRunID(),
	})
}

// GetDeploymentStatus reports the state of a deployment workflow execution.
func (h *WorkflowHandler) GetDeploymentStatus(c *gin.Context) {
	workflowID := c.Param("id")
	if workflowID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Workflow ID is required"})
		return
	}

	workflowRun := h.temporalClient.GetWorkflow(c.Request.Context(), workflowID, "")

	// The result is only available once the workflow completes.
	var result types.DeployResult
	err := workflowRun.Get(c.Request.Context(), &result)

	if err != nil {
		// Workflow is still running or failed
		describe, descErr := h.temporalClient.DescribeWorkflowExecution(
			c.Request.Context(),
			workflowID,
			"",
		)
		if descErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to describe workflow: " + descErr.Error()})
			return
		}

		status := describe.WorkflowExecutionInfo.Status.String()
		c.JSON(http.StatusOK, gin.H{
			"workflow_id": workflowID,
			"status":      status,
			"start_time":  describe.WorkflowExecutionInfo.StartTime,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workflow_id": workflowID,
		"status":      "COMPLETED",
		"result":      result,
	})
}
