package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"ai-docchat/internal/dto"
	"ai-docchat/internal/entity"
	"ai-docchat/internal/pkg/logger"
	"ai-docchat/internal/pkg/serverutils"
	"ai-docchat/internal/repository/contract"
	"ai-docchat/pkg/events"
	"ai-docchat/pkg/extract"
	"ai-docchat/pkg/llm"
	"ai-docchat/pkg/rag/prompt"
	"ai-docchat/pkg/rag/retrieval"
	"ai-docchat/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	chunkSize    = 1000
	chunkOverlap = 100
	logModule    = "DOCUMENT"
)

var tracer = otel.Tracer("ai-docchat/internal/service")

type IDocumentService interface {
	Upload(ctx context.Context, filename string, data []byte) (*dto.UploadDocumentResponse, error)
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
}

type documentService struct {
	repo      contract.DocumentRepository
	llm       llm.LLMProvider
	publisher events.Publisher
	logger    logger.ILogger
	topChunks int
}

func NewDocumentService(
	repo contract.DocumentRepository,
	llmProvider llm.LLMProvider,
	publisher events.Publisher,
	sysLogger logger.ILogger,
	topChunks int,
) IDocumentService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if topChunks <= 0 {
		topChunks = 4
	}
	return &documentService{
		repo:      repo,
		llm:       llmProvider,
		publisher: publisher,
		logger:    sysLogger,
		topChunks: topChunks,
	}
}

// Upload extracts and chunks the document and makes it the active one.
func (s *documentService) Upload(ctx context.Context, filename string, data []byte) (*dto.UploadDocumentResponse, error) {
	ctx, span := tracer.Start(ctx, "document.upload")
	defer span.End()

	filename = filepath.Base(filename)
	if !extract.Supported(filename) {
		return nil, serverutils.BadRequest("Only PDF and TXT files are supported")
	}

	text, err := extract.Text(filename, data)
	if err != nil {
		if errors.Is(err, extract.ErrEmptyText) {
			return nil, serverutils.NewAppError(fiber.StatusUnprocessableEntity, "No text could be extracted from the document", err)
		}
		s.logger.Warn(logModule, "Failed to extract document text", map[string]interface{}{
			"filename": filename,
			"error":    err.Error(),
		})
		return nil, serverutils.NewAppError(fiber.StatusUnprocessableEntity, "Error processing file: "+err.Error(), err)
	}

	doc := &entity.Document{
		Id:          uuid.New(),
		Filename:    filename,
		ContentType: contentType(filename),
		Chunks:      utils.SplitText(text, chunkSize, chunkOverlap),
		CharCount:   len([]rune(text)),
		UploadedAt:  time.Now(),
	}
	span.SetAttributes(
		attribute.String("document.id", doc.Id.String()),
		attribute.Int("document.chunks", len(doc.Chunks)),
	)

	if err := s.repo.SaveActive(ctx, doc); err != nil {
		return nil, serverutils.NewAppError(fiber.StatusInternalServerError, "Failed to store document", err)
	}

	s.logger.Info(logModule, "Document uploaded", map[string]interface{}{
		"document_id": doc.Id.String(),
		"filename":    filename,
		"chunks":      len(doc.Chunks),
		"chars":       doc.CharCount,
	})
	s.publish(ctx, events.DocumentUploaded(doc.Id.String(), filename, len(doc.Chunks)))

	return &dto.UploadDocumentResponse{
		Message:  "File processed successfully",
		Filename: filename,
		Id:       doc.Id,
		Chunks:   len(doc.Chunks),
	}, nil
}

// Ask answers a question about the active document.
func (s *documentService) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	ctx, span := tracer.Start(ctx, "document.ask")
	defer span.End()

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, serverutils.BadRequest("question is required")
	}

	doc, err := s.repo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, contract.ErrDocumentNotFound) {
			return nil, serverutils.BadRequest("No document uploaded. Please upload a document first.")
		}
		return nil, serverutils.NewAppError(fiber.StatusInternalServerError, "Failed to load document", err)
	}

	started := time.Now()
	excerpts := retrieval.Rank(question, doc.Chunks, s.topChunks)
	p := prompt.NewDocumentBuilder(doc.Filename, excerpts, question).Build()

	answer, err := s.llm.Generate(ctx, p)
	if err != nil {
		s.logger.Error(logModule, "LLM generation failed", map[string]interface{}{
			"document_id": doc.Id.String(),
			"error":       err.Error(),
		})
		return nil, serverutils.NewAppError(fiber.StatusBadGateway, "Error generating answer", err)
	}
	took := time.Since(started)

	s.logger.Info(logModule, "Question answered", map[string]interface{}{
		"document_id": doc.Id.String(),
		"excerpts":    len(excerpts),
		"duration":    took.String(),
	})
	s.publish(ctx, events.QuestionAnswered(doc.Id.String(), len(question), len(answer), took))

	return &dto.AskResponse{Answer: answer, Sources: len(excerpts)}, nil
}

// publish never fails the request; usage events are best effort.
func (s *documentService) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn(logModule, "Failed to publish event", map[string]interface{}{
			"event": e.EventType(),
			"error": err.Error(),
		})
	}
}

func contentType(filename string) string {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return "application/pdf"
	}
	return "text/plain"
}
