package handler

import (
	"errors"
	"net/http"

	"todolist/internal/item/model"
	"todolist/internal/item/service"
	"todolist/internal/item/view"
	"todolist/pkg/logger"
)

type ItemHandler struct {
	Service  *service.ItemService
	Renderer *view.Renderer
}

func NewItemHandler(service *service.ItemService, renderer *view.Renderer) *ItemHandler {
	return &ItemHandler{Service: service, Renderer: renderer}
}

func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	items, err := h.Service.List(r.Context())
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to list items: %v", err)
		http.Error(w, "Error fetching items", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.Renderer.Render(w, view.NewListPage(items)); err != nil {
		logger.Sugar.Errorf("Handler: Failed to render items: %v", err)
		w.Header().Del("Content-Type")
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
	}
}

func (h *ItemHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	in := model.AddItemInput{Title: r.PostForm.Get(model.FieldNewItem)}
	if _, err := h.Service.Add(r.Context(), in); err != nil {
		respondError(w, "add item", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *ItemHandler) EditItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	id, err := model.ParseID(model.FieldEditID, r.PostForm.Get(model.FieldEditID))
	if err != nil {
		respondError(w, "edit item", err)
		return
	}
	in := model.EditItemInput{ID: id, Title: r.PostForm.Get(model.FieldEditTitle)}
	changed, err := h.Service.Edit(r.Context(), in)
	if err != nil {
		respondError(w, "edit item", err)
		return
	}
	if !changed {
		logger.Sugar.Infof("Edit for missing item %d ignored", id)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	id, err := model.ParseID(model.FieldDeleteID, r.PostForm.Get(model.FieldDeleteID))
	if err != nil {
		respondError(w, "delete item", err)
		return
	}
	if _, err := h.Service.Delete(r.Context(), model.DeleteItemInput{ID: id}); err != nil {
		respondError(w, "delete item", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// respondError answers 400 for bad input and a generic 500 for everything else.
func respondError(w http.ResponseWriter, action string, err error) {
	var vErr *model.ValidationError
	if errors.As(err, &vErr) {
		http.Error(w, "Invalid input: "+vErr.Error(), http.StatusBadRequest)
		return
	}
	logger.Sugar.Errorf("Handler: Failed to %s: %v", action, err)
	http.Error(w, "Failed to "+action, http.StatusInternalServerError)
}
