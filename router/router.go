package router

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"todolist/internal/health"
	itemHandler "todolist/internal/item"
	"todolist/internal/item/repository"
	"todolist/internal/item/service"
	"todolist/internal/item/view"
	"todolist/middleware"
	"todolist/socket"
)

// Deps is everything the handlers need, built once in main.
type Deps struct {
	DB  *sql.DB
	Hub *socket.Hub
	Now func() time.Time
}

func Setup(deps Deps) (http.Handler, error) {
	if deps.DB == nil {
		return nil, errors.New("router: Deps.DB is required")
	}
	if deps.Hub == nil {
		return nil, errors.New("router: Deps.Hub is required")
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	// Items
	itemRepo := repository.NewItemRepository(deps.DB)
	itemService := service.NewItemService(itemRepo, deps.Hub)
	items := itemHandler.NewItemHandler(itemService, renderer)

	mux.HandleFunc("/{$}", items.ListItems)
	mux.HandleFunc("/add", items.AddItem)
	mux.HandleFunc("/edit", items.EditItem)
	mux.HandleFunc("/delete", items.DeleteItem)

	// Health
	healthHandler := health.NewHandler(deps.DB)
	if deps.Now != nil {
		healthHandler.Now = deps.Now
	}
	mux.HandleFunc("/health", healthHandler.Check)

	// Live updates
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		socket.ServeWs(deps.Hub, w, r)
	})

	mux.Handle("/static/", http.StripPrefix("/static/", view.StaticHandler()))

	return middleware.RequestLogger(middleware.Recover(mux)), nil
}
