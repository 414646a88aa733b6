package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Start requests the daemon to start processing.
func (c *Client) Start() (*StartResponse, error) {
	var resp StartResponse
	if err := c.client.Call("Rackd.Start", StartRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop requests the daemon to stop processing.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("Rackd.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status snapshot.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Rackd.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Resume clears an emergency latch.
func (c *Client) Resume() (*ResumeResponse, error) {
	var resp ResumeResponse
	if err := c.client.Call("Rackd.Resume", ResumeRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Store queues a store task.
func (c *Client) Store(productID string, position int) (*StoreResponse, error) {
	var resp StoreResponse
	req := StoreRequest{ProductID: productID, Position: position}
	if err := c.client.Call("Rackd.Store", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Retrieve queues a retrieve task.
func (c *Client) Retrieve(position int) (*RetrieveResponse, error) {
	var resp RetrieveResponse
	if err := c.client.Call("Rackd.Retrieve", RetrieveRequest{Position: position}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refresh queues an LED refresh task.
func (c *Client) Refresh() (*RefreshResponse, error) {
	var resp RefreshResponse
	if err := c.client.Call("Rackd.Refresh", RefreshRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Positions retrieves the rack snapshot.
func (c *Client) Positions() (*PositionsResponse, error) {
	var resp PositionsResponse
	if err := c.client.Call("Rackd.Positions", PositionsRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Tasks retrieves the queue snapshot.
func (c *Client) Tasks() (*TasksResponse, error) {
	var resp TasksResponse
	if err := c.client.Call("Rackd.Tasks", TasksRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Find retrieves the positions holding a product.
func (c *Client) Find(productID string) (*FindResponse, error) {
	var resp FindResponse
	if err := c.client.Call("Rackd.Find", FindRequest{ProductID: productID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// History retrieves the store/retrieve audit trail.
func (c *Client) History() (*HistoryResponse, error) {
	var resp HistoryResponse
	if err := c.client.Call("Rackd.History", HistoryRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LogTail reads from the daemon log file.
func (c *Client) LogTail(req LogTailRequest) (*LogTailResponse, error) {
	var resp LogTailResponse
	if err := c.client.Call("Rackd.LogTail", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Statistics retrieves the occupancy summary.
func (c *Client) Statistics() (*StatisticsResponse, error) {
	var resp StatisticsResponse
	if err := c.client.Call("Rackd.Statistics", StatisticsRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
