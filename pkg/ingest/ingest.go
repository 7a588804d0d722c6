// Package ingest fans a batch of sentences out across worker goroutines for
// accent annotation, then funnels the results back through a single
// transactional writer into pkg/store. Sentence annotation is embarrassingly
// parallel (no sentence depends on another's result), so a fixed worker pool
// handles the CPU-bound analysis while a single BatchWriter serializes the
// DB side into batched transactions.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/japaniel/pitchaccent/pkg/accent"
	"github.com/japaniel/pitchaccent/pkg/morph"
	"github.com/japaniel/pitchaccent/pkg/rules"
	"github.com/japaniel/pitchaccent/pkg/store"
)

// SentenceResult is one sentence's annotation output, tagged with its
// original index so an out-of-order worker pool can still report progress
// in submission order.
type SentenceResult struct {
	Index    int
	Sentence string
	Words    []accent.WordResult
	Errs     []error
}

// Processor runs accent.Annotate over many sentences concurrently and
// persists every content word into a Store.
type Processor struct {
	Tokenizer morph.Tokenizer
	Table     *rules.Table
	Store     *store.Store

	// Workers is the CPU-bound worker pool size. Defaults to 4.
	Workers int
	// BatchSize is how many sentences' worth of writes accumulate before a
	// transaction commit. Defaults to 50.
	BatchSize int

	// OnProgress, if set, is called after each sentence's words are queued
	// for persistence.
	OnProgress func(done, total int)
	// OnUnknownSuffix, if set, is forwarded to accent.Annotate for every
	// sentence.
	OnUnknownSuffix accent.UnknownSuffixFunc
	// OnSentenceErrors, if set, is called whenever accent.Annotate reports
	// per-constituent errors for a sentence. Processing continues regardless.
	OnSentenceErrors func(sentence string, errs []error)
}

// NewProcessor builds a Processor with the default concurrency settings:
// 4 workers, batches of 50.
func NewProcessor(tokenizer morph.Tokenizer, table *rules.Table, st *store.Store) *Processor {
	return &Processor{
		Tokenizer: tokenizer,
		Table:     table,
		Store:     st,
		Workers:   4,
		BatchSize: 50,
	}
}

// ProcessSentences annotates every sentence and writes its content words
// into the store, returning the total number of words persisted.
//
// A sentence whose tokenizer call itself fails is reported via its
// SentenceResult.Errs and contributes zero words; it never aborts the batch.
func (p *Processor) ProcessSentences(ctx context.Context, sentences []string) (int, error) {
	workers := p.Workers
	if workers <= 0 {
		workers = 1
	}
	batchSize := p.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}

	wp := NewWorkerPool(workers, workers*2)
	resultCh := make(chan SentenceResult, workers*2)

	bw := NewBatchWriter(p.Store.DB(), batchSize, 100*time.Millisecond)
	var batchErr error
	var batchErrMu sync.Mutex
	bw.OnError = func(e error) {
		batchErrMu.Lock()
		if batchErr == nil {
			batchErr = e
		}
		batchErrMu.Unlock()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	wp.Start(ctx)

	var totalWords int64
	doneCh := make(chan error, 1)

	go func() {
		defer close(doneCh)
		buffer := make(map[int]SentenceResult)
		nextIdx := 0
		total := len(sentences)

		for i := 0; i < total; i++ {
			select {
			case <-ctx.Done():
				doneCh <- ctx.Err()
				return
			case res := <-resultCh:
				buffer[res.Index] = res

				for {
					item, ok := buffer[nextIdx]
					if !ok {
						break
					}
					delete(buffer, nextIdx)

					current := item
					if p.OnSentenceErrors != nil && len(current.Errs) > 0 {
						p.OnSentenceErrors(current.Sentence, current.Errs)
					}
					if err := submitSentenceWrite(bw, current, &totalWords); err != nil {
						doneCh <- err
						return
					}

					if p.OnProgress != nil {
						p.OnProgress(nextIdx+1, total)
					}
					nextIdx++
				}
			}
		}
		doneCh <- nil
	}()

Loop:
	for i, sentence := range sentences {
		select {
		case <-ctx.Done():
			break Loop
		default:
		}

		idx := i
		sent := sentence
		err := wp.Submit(func(ctx context.Context) error {
			res := p.annotateSentence(ctx, idx, sent)
			select {
			case resultCh <- res:
			case <-ctx.Done():
			}
			return nil
		})
		if err != nil {
			cancel()
			wp.Close()
			bw.Close()
			return 0, fmt.Errorf("ingest: submit sentence %d: %w", idx, err)
		}
	}

	consumerErr := <-doneCh

	wp.Close()
	if err := bw.Close(); err != nil && consumerErr == nil {
		consumerErr = err
	}

	batchErrMu.Lock()
	if batchErr != nil && consumerErr == nil {
		consumerErr = batchErr
	}
	batchErrMu.Unlock()

	return int(totalWords), consumerErr
}

func (p *Processor) annotateSentence(ctx context.Context, index int, sentence string) SentenceResult {
	words, errs := accent.Annotate(ctx, sentence, p.Tokenizer, p.Table, p.OnUnknownSuffix)
	return SentenceResult{Index: index, Sentence: sentence, Words: words, Errs: errs}
}

// submitSentenceWrite queues one sentence's content words as a single
// BatchWriter job, so every word from a sentence commits atomically.
func submitSentenceWrite(bw *BatchWriter, res SentenceResult, totalWords *int64) error {
	return bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
		for _, w := range res.Words {
			if err := store.PutTx(tx, w.Surface, res.Sentence, w); err != nil {
				return fmt.Errorf("ingest: persist %q: %w", w.Surface, err)
			}
			atomic.AddInt64(totalWords, 1)
		}
		return nil
	})
}
