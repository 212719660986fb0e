package eventproducers

import (
	"context"
	"sync"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/akormos/alert-trading/src/eventproducers/discord"
)

type discordClient struct {
	wg      *sync.WaitGroup
	router  *mux.Router
	handler *discord.MessageHandler
}

func (r *discordClient) Start(ctx context.Context) {
	r.wg.Add(1)

	r.router.HandleFunc("/discord/messages", r.handler.Handle).Methods("POST")

	go func() {
		defer r.wg.Done()
		<-ctx.Done()
		log.Info("stopping Discord producer")
	}()
}

func NewDiscordClient(wg *sync.WaitGroup, router *mux.Router, handler *discord.MessageHandler) *discordClient {
	return &discordClient{
		wg:      wg,
		router:  router,
		handler: handler,
	}
}
