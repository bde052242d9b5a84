package dnsbl

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/miekg/dns"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Serve answers queries on addr over UDP and TCP until ctx is done.
func Serve(ctx context.Context, addr string, handler dns.Handler, log *slog.Logger) error {
	pc, err := net.ListenPacket("udp", addr)
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", pc.LocalAddr().String())
	if err != nil {
		_ = pc.Close()
		return err
	}
	return ServeConns(ctx, pc, ln, handler, log)
}

// ServeConns answers queries on already bound sockets until ctx is done. Either may be nil.
func ServeConns(ctx context.Context, pc net.PacketConn, ln net.Listener, handler dns.Handler, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	var servers []*running
	if pc != nil {
		servers = append(servers, newRunning(&dns.Server{PacketConn: pc, Handler: handler}))
		log.Info("dnsbl listening", "net", "udp", "addr", pc.LocalAddr().String())
	}
	if ln != nil {
		servers = append(servers, newRunning(&dns.Server{Listener: ln, Handler: handler}))
		log.Info("dnsbl listening", "net", "tcp", "addr", ln.Addr().String())
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, r := range servers {
		g.Go(func() error {
			defer close(r.done)
			return r.srv.ActivateAndServe()
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, r := range servers {
			select {
			case <-r.started:
			case <-r.done:
				continue
			}
			if err := r.srv.ShutdownContext(shutdownCtx); err != nil {
				log.Warn("failed to stop dnsbl server", "err", err)
			}
		}
		return nil
	})

	err := g.Wait()
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// running tracks one dns.Server so shutdown never races its startup.
type running struct {
	srv     *dns.Server
	started chan struct{}
	done    chan struct{}
}

func newRunning(srv *dns.Server) *running {
	r := &running{srv: srv, started: make(chan struct{}), done: make(chan struct{})}
	srv.NotifyStartedFunc = func() { close(r.started) }
	return r
}
