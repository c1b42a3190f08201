package occupancy

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/oshokin/crowd-alarm/internal/config"
)

// GRPC calls a unary method taking google.protobuf.Empty and returning
// google.protobuf.Int64Value, so no generated stubs are needed.
type GRPC struct {
	// conn is the client connection.
	conn *grpc.ClientConn
	// method is the full method name, e.g. "/occupancy.v1.OccupancyService/GetCount".
	method string
}

// DialGRPC creates a client for the count service. The connection is made lazily
// on the first call and uses insecure transport credentials.
func DialGRPC(cfg *config.GRPCSource) (*GRPC, error) {
	conn, err := grpc.NewClient(cfg.Address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial count service: %w", err)
	}

	method := cfg.Method
	if method == "" {
		method = config.DefaultGRPCMethod
	}

	return &GRPC{
		conn:   conn,
		method: method,
	}, nil
}

// Count invokes the method once.
func (g *GRPC) Count(ctx context.Context) (int, error) {
	reply := new(wrapperspb.Int64Value)

	if err := g.conn.Invoke(ctx, g.method, new(emptypb.Empty), reply); err != nil {
		return 0, fmt.Errorf("call %s: %w", g.method, err)
	}

	return checkCount(reply.GetValue())
}

// Close closes the connection.
func (g *GRPC) Close() error {
	return g.conn.Close()
}
