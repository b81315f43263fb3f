package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"knowledgevault/internal/ai"
	"knowledgevault/internal/model"
	"knowledgevault/internal/pkg/extract"
	"knowledgevault/internal/platform/rabbitmq"
	"knowledgevault/internal/repository"
	"knowledgevault/internal/vector"
)

const (
	chunkSize          = 512
	chunkOverlap       = 64
	embeddingBatchSize = 10 // DashScope and similar APIs often limit batch size
)

// ClassifyWorker consumes uploaded document ids and runs the processing
// pipeline: text extraction, AI classification, chunk embedding, and vector
// indexing. It owns every status transition after "pending".
type ClassifyWorker struct {
	conn         *amqp.Connection
	docRepo      *repository.DocumentRepository
	categoryRepo *repository.CategoryRepository
	chunkRepo    *repository.DocumentChunkRepository
	llmClient    *ai.Client
	vectorClient *vector.Client
	queueName    string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewClassifyWorker(
	conn *amqp.Connection,
	docRepo *repository.DocumentRepository,
	categoryRepo *repository.CategoryRepository,
	chunkRepo *repository.DocumentChunkRepository,
	llmClient *ai.Client,
	vectorClient *vector.Client,
	queueName string,
) *ClassifyWorker {
	return &ClassifyWorker{
		conn:         conn,
		docRepo:      docRepo,
		categoryRepo: categoryRepo,
		chunkRepo:    chunkRepo,
		llmClient:    llmClient,
		vectorClient: vectorClient,
		queueName:    queueName,
	}
}

func (w *ClassifyWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var job rabbitmq.ClassifyJob
				if err := json.Unmarshal(d.Body, &job); err != nil {
					log.Printf("worker decode classify job failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				if err := w.process(workerCtx, job.DocumentID); err != nil {
					log.Printf("worker process document %d failed: %v", job.DocumentID, err)
					_ = d.Nack(false, false)
					continue
				}

				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *ClassifyWorker) process(ctx context.Context, documentID uint) error {
	doc, err := w.docRepo.GetByID(documentID)
	if err != nil {
		return err
	}
	if doc == nil {
		// the document was deleted before the job ran; nothing to do
		return nil
	}
	if doc.Status == model.StatusProcessed {
		return nil
	}

	if err := w.docRepo.UpdateStatus(doc.ID, model.StatusProcessing); err != nil {
		return err
	}

	if err := w.classify(ctx, doc); err != nil {
		if statusErr := w.docRepo.UpdateStatus(doc.ID, model.StatusFailed); statusErr != nil {
			log.Printf("worker mark document %d failed errored: %v", doc.ID, statusErr)
		}
		return err
	}
	return nil
}

func (w *ClassifyWorker) classify(ctx context.Context, doc *model.Document) error {
	content, err := w.extractContent(doc)
	if err != nil {
		return err
	}
	doc.Content = content

	categories, err := w.categoryRepo.List()
	if err != nil {
		return err
	}
	known := make([]string, len(categories))
	for i, c := range categories {
		known[i] = c.Name
	}

	result, err := w.llmClient.Classify(ctx, doc.Name, content, known)
	if err != nil {
		return err
	}
	doc.Summary = result.Summary
	doc.SetTags(result.Tags)

	categoryID, err := w.resolveCategory(result.Category)
	if err != nil {
		return err
	}
	doc.CategoryID = categoryID

	if strings.TrimSpace(content) != "" {
		if err := w.embedAndIndex(ctx, doc, content); err != nil {
			// the document is usable without vectors; record and move on
			log.Printf("worker vector pipeline for document %d failed: %v", doc.ID, err)
		}
	}

	doc.Status = model.StatusProcessed
	return w.docRepo.UpdateClassification(doc)
}

func (w *ClassifyWorker) extractContent(doc *model.Document) (string, error) {
	f, err := os.Open(doc.StoragePath)
	if err != nil {
		return "", fmt.Errorf("open stored file failed: %w", err)
	}
	defer f.Close()

	content, err := extract.Text(f, doc.MimeType)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedType) {
			return "", nil
		}
		return "", fmt.Errorf("extract text failed: %w", err)
	}
	return content, nil
}

// resolveCategory maps the model's category name onto an existing row,
// creating one when the name is new. An empty name leaves the document
// uncategorized.
func (w *ClassifyWorker) resolveCategory(name string) (*uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	existing, err := w.categoryRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &existing.ID, nil
	}
	category := &model.Category{Name: name}
	if err := w.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return &category.ID, nil
}

func (w *ClassifyWorker) embedAndIndex(ctx context.Context, doc *model.Document, content string) error {
	chunks := chunkText(content, chunkSize, chunkOverlap)
	if len(chunks) == 0 {
		return nil
	}

	var embeddings [][]float32
	for i := 0; i < len(chunks); i += embeddingBatchSize {
		end := i + embeddingBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batched, err := w.llmClient.EmbedBatch(ctx, chunks[i:end])
		if err != nil {
			return err
		}
		embeddings = append(embeddings, batched...)
	}
	if len(embeddings) != len(chunks) {
		return errors.New("embedding count mismatch")
	}

	docChunks := make([]model.DocumentChunk, len(chunks))
	for i := range chunks {
		docChunks[i] = model.DocumentChunk{
			DocumentID: doc.ID,
			Position:   i,
			Content:    chunks[i],
		}
		docChunks[i].SetEmbedding(embeddings[i])
	}
	if err := w.chunkRepo.CreateBatch(docChunks); err != nil {
		return err
	}

	if w.vectorClient != nil {
		indexed, err := w.vectorClient.Index(ctx, vector.IndexRequest{
			DocumentID: doc.ID,
			Vectors:    embeddings,
			Payload:    map[string]string{"name": doc.Name},
		})
		if err != nil {
			return err
		}
		doc.VectorIndexed = true
		doc.VectorID = indexed.VectorID
	}
	return nil
}

func (w *ClassifyWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

// chunkText splits text into overlapping chunks by rune count.
func chunkText(text string, size, overlap int) []string {
	if size <= 0 {
		size = chunkSize
	}
	if overlap >= size {
		overlap = size / 2
	}
	var chunks []string
	runes := []rune(text)
	for i := 0; i < len(runes); {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
		if end == len(runes) {
			break
		}
		i += size - overlap
	}
	return chunks
}
