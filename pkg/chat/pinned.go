package chat

import (
	"encoding/json"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

// PinnedChat is a local-only annotation: the title is a snapshot taken
// at pin time and may drift from the live conversation title until
// UpdateTitle re-syncs it.
type PinnedChat struct {
	Id       string    `json:"id"`
	Title    string    `json:"title"`
	PinnedAt time.Time `json:"pinnedAt"`
}

var pinnedBucket = []byte("pinned_chats")

// PinnedStore keeps pinned chats in a local bbolt file, independent of
// the remote store.
type PinnedStore struct {
	db *bolt.DB
}

// OpenPinnedStore opens (or creates) the local pin database at path.
func OpenPinnedStore(path string) (*PinnedStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(pinnedBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &PinnedStore{db: db}, nil
}

func (p *PinnedStore) Close() error {
	return p.db.Close()
}

// Pin records a chat with a title snapshot. Pinning an already-pinned
// chat is a no-op.
func (p *PinnedStore) Pin(id, title string) error {
	return p.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(pinnedBucket)
		if b.Get([]byte(id)) != nil {
			return nil
		}
		raw, err := json.Marshal(PinnedChat{Id: id, Title: title, PinnedAt: nowFunc()})
		if err != nil {
			return err
		}
		return b.Put([]byte(id), raw)
	})
}

func (p *PinnedStore) Unpin(id string) error {
	return p.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(pinnedBucket).Delete([]byte(id))
	})
}

func (p *PinnedStore) IsPinned(id string) bool {
	pinned := false
	p.db.View(func(tx *bolt.Tx) error {
		pinned = tx.Bucket(pinnedBucket).Get([]byte(id)) != nil
		return nil
	})
	return pinned
}

// UpdateTitle re-syncs the title snapshot of a pinned chat; unknown ids
// are ignored.
func (p *PinnedStore) UpdateTitle(id, title string) error {
	return p.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(pinnedBucket)
		raw := b.Get([]byte(id))
		if raw == nil {
			return nil
		}
		var pc PinnedChat
		if err := json.Unmarshal(raw, &pc); err != nil {
			// Malformed stored entry: drop it rather than fail the view.
			return b.Delete([]byte(id))
		}
		pc.Title = title
		updated, err := json.Marshal(pc)
		if err != nil {
			return err
		}
		return b.Put([]byte(id), updated)
	})
}

// List returns all pinned chats, oldest pin first. Malformed entries are
// skipped, not fatal.
func (p *PinnedStore) List() ([]PinnedChat, error) {
	var out []PinnedChat
	err := p.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(pinnedBucket).ForEach(func(_, v []byte) error {
			var pc PinnedChat
			if err := json.Unmarshal(v, &pc); err != nil {
				return nil
			}
			out = append(out, pc)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PinnedAt.Before(out[j].PinnedAt) })
	return out, nil
}
