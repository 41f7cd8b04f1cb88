package rpc

import (
	"fmt"
	"net"
	"net/rpc"
	"sync"

	"github.com/shenjiangwei/memsim/cache"
	"github.com/shenjiangwei/memsim/internal/simlog"
	"github.com/shenjiangwei/memsim/session"
)

var logger = simlog.New("rpc")

// Server exposes a session.Session over net/rpc, the way the teacher's
// Server exposed one mpool.MemoryPool. Unlike the teacher, which backed a
// fixed hybrid.Allocator, Server wraps the whole session so remote clients
// can drive malloc/free, the buddy allocator, and cache accesses alike.
//
// Server carries its own *rpc.Server rather than registering on
// net/rpc's package-global default server: the RPC service name is always
// "Server", so two instances sharing the default server would collide on
// registration and would both serve every accepted connection.
type Server struct {
	sess *session.Session
	mu   sync.Mutex

	rpcServer *rpc.Server
}

// NewServer constructs a Server around a fresh session.
func NewServer() *Server {
	return &Server{sess: session.New(), rpcServer: rpc.NewServer()}
}

// Start listens on address and serves connections, mirroring the teacher's
// accept loop. A failed Accept is logged and the loop keeps going; Start
// returns only if the listen itself fails.
func (s *Server) Start(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("rpc: failed to start server: %v", err)
	}
	defer listener.Close()

	logger.Info("listening on %s", address)

	for {
		conn, err := listener.Accept()
		if err != nil {
			logger.Error("accept failed: %v", err)
			continue
		}
		go s.rpcServer.ServeConn(conn)
	}
}

// Register registers s as an RPC receiver on its own *rpc.Server.
func (s *Server) Register() error {
	return s.rpcServer.Register(s)
}

func (s *Server) InitMemory(req *BuddyInitRequest, resp *BuddyInitResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess.InitMemory(req.Size)
	return nil
}

func (s *Server) Malloc(req *MallocRequest, resp *MallocResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.sess.Malloc(req.Size)
	if err != nil {
		resp.Error = err.Error()
		return nil
	}
	resp.ID = id
	return nil
}

func (s *Server) Free(req *FreeRequest, resp *FreeResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sess.Free(req.ID); err != nil {
		resp.Error = err.Error()
	}
	return nil
}

func (s *Server) BuddyInit(req *BuddyInitRequest, resp *BuddyInitResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess.BuddyInit(req.Size)
	return nil
}

func (s *Server) BuddyMalloc(req *MallocRequest, resp *MallocResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.sess.BuddyMalloc(req.Size)
	if err != nil {
		resp.Error = err.Error()
		return nil
	}
	resp.ID = id
	return nil
}

func (s *Server) BuddyFree(req *FreeRequest, resp *FreeResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sess.BuddyFree(req.ID); err != nil {
		resp.Error = err.Error()
	}
	return nil
}

func (s *Server) Access(req *AccessRequest, resp *AccessResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp.Hit = s.sess.Access(req.Address) == cache.Hit
	return nil
}

func (s *Server) Stats(req *StatsRequest, resp *StatsResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := s.sess.Stats()
	if report.Target == session.StatsBuddy {
		resp.IsBuddy = true
		resp.Total = report.Buddy.MemorySize
		resp.Used = report.Buddy.Used
		resp.Free = report.Buddy.Free
		resp.UtilizationPct = report.Buddy.UtilizationPct
		resp.AllocSuccess = report.Buddy.AllocSuccess
		resp.AllocFail = report.Buddy.AllocFail
		return nil
	}

	resp.Total = report.Partition.Total
	resp.Used = report.Partition.Used
	resp.Free = report.Partition.Free
	resp.UtilizationPct = report.Partition.UtilizationPct
	resp.InternalFragBytes = report.Partition.InternalFragBytes
	resp.ExternalFragPct = report.Partition.ExternalFragPct
	resp.AllocSuccess = report.Partition.AllocSuccess
	resp.AllocFail = report.Partition.AllocFail
	return nil
}
