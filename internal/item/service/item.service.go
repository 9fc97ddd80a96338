package service

import (
	"context"

	"todolist/internal/item/model"
	"todolist/socket"
)

// Store describes item storage, so the service can run against something
// other than PostgreSQL in tests.
type Store interface {
	List(ctx context.Context) ([]model.Item, error)
	Create(ctx context.Context, title string) (model.Item, error)
	UpdateTitle(ctx context.Context, id int64, title string) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// Publisher receives an event after each successful change.
type Publisher interface {
	Publish(ev socket.ItemEvent)
}

type ItemService struct {
	Repo Store
	Hub  Publisher
}

// NewItemService wires the store and an optional publisher (nil disables events).
func NewItemService(repo Store, hub Publisher) *ItemService {
	return &ItemService{Repo: repo, Hub: hub}
}

func (s *ItemService) List(ctx context.Context) ([]model.Item, error) {
	return s.Repo.List(ctx)
}

func (s *ItemService) Add(ctx context.Context, in model.AddItemInput) (model.Item, error) {
	if err := in.Validate(); err != nil {
		return model.Item{}, err
	}
	it, err := s.Repo.Create(ctx, in.Title)
	if err != nil {
		return model.Item{}, err
	}
	s.publish(socket.ItemEvent{Type: socket.ItemAddedType, ItemID: it.ID, Title: it.Title})
	return it, nil
}

// Edit renames an item. It reports whether a row matched; a missing id is not an error.
func (s *ItemService) Edit(ctx context.Context, in model.EditItemInput) (bool, error) {
	if err := in.Validate(); err != nil {
		return false, err
	}
	if !in.InRange() {
		return false, nil
	}
	n, err := s.Repo.UpdateTitle(ctx, in.ID, in.Title)
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	s.publish(socket.ItemEvent{Type: socket.ItemUpdatedType, ItemID: in.ID, Title: in.Title})
	return true, nil
}

// Delete removes an item. It reports whether a row matched; a missing id is not an error.
func (s *ItemService) Delete(ctx context.Context, in model.DeleteItemInput) (bool, error) {
	if err := in.Validate(); err != nil {
		return false, err
	}
	if !in.InRange() {
		return false, nil
	}
	n, err := s.Repo.Delete(ctx, in.ID)
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	s.publish(socket.ItemEvent{Type: socket.ItemDeletedType, ItemID: in.ID})
	return true, nil
}

func (s *ItemService) publish(ev socket.ItemEvent) {
	if s.Hub != nil {
		s.Hub.Publish(ev)
	}
}
