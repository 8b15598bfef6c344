package handlers

import (
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/alfredoptarigan/resume-match/internal/models"
	"github.com/alfredoptarigan/resume-match/internal/services"
)

type AnalyzeHandler struct {
	storageService services.StorageService
	documentParser services.DocumentParserService
	analyzer       services.AnalyzerService
	maxFileSize    int64
}

func NewAnalyzeHandler(
	storageService services.StorageService,
	documentParser services.DocumentParserService,
	analyzer services.AnalyzerService,
	maxFileSize int64,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		storageService: storageService,
		documentParser: documentParser,
		analyzer:       analyzer,
		maxFileSize:    maxFileSize,
	}
}

// HandleAnalyze handles POST /analyze. It expects a multipart form with a
// "resume" file and a "job_description" field.
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	resumeFile, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Resume PDF is required",
		})
	}

	jobDescription := c.FormValue("job_description")

	log.Printf("📥 Received analysis request. File: %s, JD Length: %d", resumeFile.Filename, len(jobDescription))

	if strings.TrimSpace(jobDescription) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Job description is required",
		})
	}

	if h.maxFileSize > 0 && resumeFile.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filePath, err := h.storageService.SaveFile(resumeFile)
	if err != nil {
		return analysisFailed(c, err)
	}

	log.Println("📄 Extracting resume text...")
	resumeText := h.documentParser.ExtractText(filePath)

	if err := h.storageService.DeleteFile(filePath); err != nil {
		log.Printf("⚠️  Failed to clean up %s: %v", filePath, err)
	}

	result, err := h.analyzer.Analyze(c.UserContext(), services.AnalysisInput{
		ResumeFilename: resumeFile.Filename,
		ResumeText:     resumeText,
		JobDescription: jobDescription,
	})
	if err != nil {
		return analysisFailed(c, err)
	}

	return c.JSON(result)
}

func analysisFailed(c *fiber.Ctx, err error) error {
	log.Printf("❌ Internal Error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
		Error: fmt.Sprintf("Analysis failed: %v", err),
	})
}
