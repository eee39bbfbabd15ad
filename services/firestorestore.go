package services

import (
	"context"
	"fmt"
	"time"

	"tasklist/model"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore keeps tasks as documents of one Firestore collection,
// keyed by task id. Each document carries a seq field taken from a counter
// document in "<collection>_meta"; Values orders by seq. An overwrite keeps
// the document's seq.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

// taskDoc is the stored shape of a task.
type taskDoc struct {
	ID          string     `firestore:"id"`
	Description string     `firestore:"description"`
	Task        string     `firestore:"task"`
	Priority    float64    `firestore:"priority"`
	Labels      []string   `firestore:"labels"`
	CreatedAt   time.Time  `firestore:"createdAt"`
	UpdatedAt   *time.Time `firestore:"updatedAt,omitempty"`
	Seq         int64      `firestore:"seq"`
}

type sequenceDoc struct {
	Next int64 `firestore:"next"`
}

func NewFirestoreStore(client *firestore.Client, collection string) *FirestoreStore {
	return &FirestoreStore{client: client, collection: collection}
}

func (s *FirestoreStore) col() *firestore.CollectionRef {
	return s.client.Collection(s.collection)
}

func (s *FirestoreStore) counter() *firestore.DocumentRef {
	return s.client.Collection(s.collection + "_meta").Doc("sequence")
}

func (s *FirestoreStore) ordered() firestore.Query {
	return s.col().OrderBy("seq", firestore.Asc)
}

func (s *FirestoreStore) Insert(ctx context.Context, id string, t model.Task) error {
	ref := s.col().Doc(id)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		seq, found, err := readSeq(tx, ref)
		if err != nil {
			return err
		}
		if !found {
			next, err := readCounter(tx, s.counter())
			if err != nil {
				return err
			}
			seq = next
			if err := tx.Set(s.counter(), sequenceDoc{Next: next + 1}); err != nil {
				return err
			}
		}
		return tx.Set(ref, toDoc(t, seq))
	})
	if err != nil {
		return fmt.Errorf("firestore insert task %s: %w", id, err)
	}
	return nil
}

func (s *FirestoreStore) Get(ctx context.Context, id string) (model.Task, bool, error) {
	snap, err := s.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.Task{}, false, nil
		}
		return model.Task{}, false, fmt.Errorf("firestore get task %s: %w", id, err)
	}
	doc, err := decodeDoc(snap)
	if err != nil {
		return model.Task{}, false, err
	}
	return doc.task(), true, nil
}

func (s *FirestoreStore) Remove(ctx context.Context, id string) (model.Task, bool, error) {
	ref := s.col().Doc(id)
	var removed model.Task
	var found bool

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		found = false
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return nil
			}
			return err
		}
		doc, err := decodeDoc(snap)
		if err != nil {
			return err
		}
		removed, found = doc.task(), true
		return tx.Delete(ref)
	})
	if err != nil {
		return model.Task{}, false, fmt.Errorf("firestore remove task %s: %w", id, err)
	}
	return removed, found, nil
}

func (s *FirestoreStore) Values(ctx context.Context) ([]model.Task, error) {
	iter := s.ordered().Documents(ctx)
	defer iter.Stop()

	tasks := []model.Task{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore list tasks: %w", err)
		}
		doc, err := decodeDoc(snap)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, doc.task())
	}
	return tasks, nil
}

func (s *FirestoreStore) Clear(ctx context.Context) error {
	refs := s.col().DocumentRefs(ctx)
	bw := s.client.BulkWriter(ctx)

	var jobs []*firestore.BulkWriterJob
	for {
		ref, err := refs.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			bw.End()
			return fmt.Errorf("firestore clear tasks: %w", err)
		}
		job, err := bw.Delete(ref)
		if err != nil {
			bw.End()
			return fmt.Errorf("firestore clear tasks: %w", err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	for _, job := range jobs {
		if _, err := job.Results(); err != nil && status.Code(err) != codes.NotFound {
			return fmt.Errorf("firestore clear tasks: %w", err)
		}
	}
	return nil
}

func (s *FirestoreStore) Update(ctx context.Context, id string, fn func(model.Task) (model.Task, error)) (model.Task, bool, error) {
	ref := s.col().Doc(id)
	var updated model.Task
	var found bool

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		found = false
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return nil
			}
			return err
		}
		cur, err := decodeDoc(snap)
		if err != nil {
			return err
		}
		found = true
		updated, err = fn(cur.task())
		if err != nil {
			return err
		}
		return tx.Set(ref, toDoc(updated, cur.Seq))
	})
	if err != nil {
		return model.Task{}, found, fmt.Errorf("firestore update task %s: %w", id, err)
	}
	return updated, found, nil
}

// Replace deletes the documents fn drops and rewrites the ones it keeps
// with their existing seq. Firestore rejects two writes to one document in
// a transaction, so kept documents are overwritten in place rather than
// deleted and re-created.
func (s *FirestoreStore) Replace(ctx context.Context, fn func([]model.Task) ([]model.Task, error)) ([]model.Task, error) {
	var result []model.Task

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snaps, err := tx.Documents(s.ordered()).GetAll()
		if err != nil {
			return err
		}
		next, err := readCounter(tx, s.counter())
		if err != nil {
			return err
		}

		current := make([]model.Task, 0, len(snaps))
		seqs := make(map[string]int64, len(snaps))
		for _, snap := range snaps {
			doc, err := decodeDoc(snap)
			if err != nil {
				return err
			}
			current = append(current, doc.task())
			seqs[snap.Ref.ID] = doc.Seq
		}

		keep, err := fn(current)
		if err != nil {
			return err
		}
		kept := make(map[string]struct{}, len(keep))
		for _, t := range keep {
			kept[t.ID] = struct{}{}
		}

		for _, snap := range snaps {
			if _, ok := kept[snap.Ref.ID]; !ok {
				if err := tx.Delete(snap.Ref); err != nil {
					return err
				}
			}
		}
		advanced := false
		for _, t := range keep {
			seq, ok := seqs[t.ID]
			if !ok {
				seq, next, advanced = next, next+1, true
			}
			if err := tx.Set(s.col().Doc(t.ID), toDoc(t, seq)); err != nil {
				return err
			}
		}
		if advanced {
			if err := tx.Set(s.counter(), sequenceDoc{Next: next}); err != nil {
				return err
			}
		}
		result = append([]model.Task{}, keep...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// readSeq returns the seq of the task document at ref, if it exists.
func readSeq(tx *firestore.Transaction, ref *firestore.DocumentRef) (int64, bool, error) {
	snap, err := tx.Get(ref)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return 0, false, nil
		}
		return 0, false, err
	}
	doc, err := decodeDoc(snap)
	if err != nil {
		return 0, false, err
	}
	return doc.Seq, true, nil
}

// readCounter returns the next free seq. A missing counter starts at 1.
func readCounter(tx *firestore.Transaction, ref *firestore.DocumentRef) (int64, error) {
	snap, err := tx.Get(ref)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return 1, nil
		}
		return 0, err
	}
	var c sequenceDoc
	if err := snap.DataTo(&c); err != nil {
		return 0, fmt.Errorf("firestore decode sequence: %w", err)
	}
	if c.Next < 1 {
		c.Next = 1
	}
	return c.Next, nil
}

func toDoc(t model.Task, seq int64) taskDoc {
	labels := t.Labels
	if labels == nil {
		labels = []string{}
	}
	return taskDoc{
		ID:          t.ID,
		Description: t.Description,
		Task:        t.Task,
		Priority:    t.Priority,
		Labels:      labels,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Seq:         seq,
	}
}

func (d taskDoc) task() model.Task {
	labels := d.Labels
	if labels == nil {
		labels = []string{}
	}
	return model.Task{
		ID:          d.ID,
		Description: d.Description,
		Task:        d.Task,
		Priority:    d.Priority,
		Labels:      labels,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func decodeDoc(snap *firestore.DocumentSnapshot) (taskDoc, error) {
	var d taskDoc
	if err := snap.DataTo(&d); err != nil {
		return taskDoc{}, fmt.Errorf("firestore decode task %s: %w", snap.Ref.ID, err)
	}
	if d.ID == "" {
		d.ID = snap.Ref.ID
	}
	return d, nil
}

var _ TaskStore = (*FirestoreStore)(nil)
