package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/minesbot/ledger"
	"github.com/wfunc/minesbot/logger"
)

// Server manages the RPC listener for the operator surface.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server. Services are registered by the
// caller via net/rpc before Start.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// AdminService exposes operator queries and overrides over net/rpc.
type AdminService struct {
	store *ledger.Store
}

func NewAdminService(store *ledger.Store) *AdminService {
	return &AdminService{store: store}
}

type StatsArgs struct{}

type StatsReply struct {
	Accounts    int
	ActiveGames int
}

func (s *AdminService) Stats(args *StatsArgs, reply *StatsReply) error {
	reply.Accounts = s.store.Len()
	reply.ActiveGames = s.store.ActiveGames()
	return nil
}

type LeaderboardArgs struct {
	Limit int
}

type LeaderboardReply struct {
	Entries []ledger.Entry
}

func (s *AdminService) Leaderboard(args *LeaderboardArgs, reply *LeaderboardReply) error {
	reply.Entries = s.store.Leaderboard(args.Limit)
	return nil
}

type SetBalanceArgs struct {
	UserID int64
	Amount int64
}

type SetBalanceReply struct {
	Balance int64
}

func (s *AdminService) SetBalance(args *SetBalanceArgs, reply *SetBalanceReply) error {
	s.store.SetBalance(args.UserID, args.Amount)
	reply.Balance = args.Amount
	return nil
}
