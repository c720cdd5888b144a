package main

import (
	"net/rpc"

	"github.com/wfunc/minesbot/bot"
	"github.com/wfunc/minesbot/broadcast"
	"github.com/wfunc/minesbot/config"
	"github.com/wfunc/minesbot/gateway"
	"github.com/wfunc/minesbot/ledger"
	"github.com/wfunc/minesbot/logger"
	"github.com/wfunc/minesbot/monitor"
	adminrpc "github.com/wfunc/minesbot/rpc"
	"github.com/wfunc/minesbot/services"
	"github.com/wfunc/minesbot/transport"
	"github.com/wfunc/minesbot/transport/telegram"
)

func main() {
	// Initialize logger
	logger.Init()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Account ledger and game orchestration
	store := ledger.NewStore(cfg.Game.StartBalance)
	games := services.NewGameService(store)

	// Metrics endpoint
	mon := monitor.NewMonitor("minesbot")
	mon.StartServer(cfg.Server.MonitorAddress)

	// Messaging transport
	var messenger transport.Messenger
	switch cfg.Bot.Transport {
	case "telegram":
		t, err := telegram.New(cfg.Bot.Token)
		if err != nil {
			logger.Log.Fatalf("Failed to connect to Telegram: %v", err)
		}
		go t.Run()
		messenger = t
	case "websocket":
		gw := gateway.New(cfg.Server.GatewayAddress)
		go func() {
			if err := gw.Start(); err != nil {
				logger.Log.Fatalf("Gateway failed: %v", err)
			}
		}()
		messenger = gw
	default:
		logger.Log.Fatalf("Unknown transport %q", cfg.Bot.Transport)
	}

	// Operator RPC surface
	rpcServer, err := adminrpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	rpc.Register(adminrpc.NewAdminService(store))
	go rpcServer.Start()

	caster := broadcast.New(store, messenger)

	dispatcher := bot.NewDispatcher(store, games, messenger, caster, mon, bot.Options{
		AdminID:         cfg.Bot.AdminID,
		BonusAmount:     cfg.Game.BonusAmount,
		LeaderboardSize: cfg.Game.LeaderboardSize,
	})

	logger.Log.Infof("Mines bot running with %s transport", cfg.Bot.Transport)
	dispatcher.Run()
}
