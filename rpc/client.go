package rpc

import (
	"fmt"
	"net/rpc"
)

// Client is a thin net/rpc.Client wrapper for a remote Server, mirroring
// the teacher's Client.
type Client struct {
	rpcClient *rpc.Client
}

// NewClient dials address and returns a Client bound to it.
func NewClient(address string) (*Client, error) {
	c, err := rpc.Dial("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("rpc: failed to connect to server: %v", err)
	}
	return &Client{rpcClient: c}, nil
}

// InitMemory creates the remote partition allocator's address space.
func (c *Client) InitMemory(size uint64) error {
	req := &BuddyInitRequest{Size: size}
	resp := &BuddyInitResponse{}
	return c.rpcClient.Call("Server.InitMemory", req, resp)
}

// Malloc allocates size bytes from the remote partition allocator.
func (c *Client) Malloc(size uint64) (int, error) {
	req := &MallocRequest{Size: size}
	resp := &MallocResponse{}
	if err := c.rpcClient.Call("Server.Malloc", req, resp); err != nil {
		return 0, fmt.Errorf("rpc: call failed: %v", err)
	}
	if resp.Error != "" {
		return 0, fmt.Errorf("rpc: server error: %s", resp.Error)
	}
	return resp.ID, nil
}

// Free releases a partition allocator block on the remote server.
func (c *Client) Free(id int) error {
	req := &FreeRequest{ID: id}
	resp := &FreeResponse{}
	if err := c.rpcClient.Call("Server.Free", req, resp); err != nil {
		return fmt.Errorf("rpc: call failed: %v", err)
	}
	if resp.Error != "" {
		return fmt.Errorf("rpc: server error: %s", resp.Error)
	}
	return nil
}

// BuddyInit creates the remote buddy allocator.
func (c *Client) BuddyInit(size uint64) error {
	req := &BuddyInitRequest{Size: size}
	resp := &BuddyInitResponse{}
	return c.rpcClient.Call("Server.BuddyInit", req, resp)
}

// BuddyMalloc allocates size bytes from the remote buddy allocator.
func (c *Client) BuddyMalloc(size uint64) (int, error) {
	req := &MallocRequest{Size: size}
	resp := &MallocResponse{}
	if err := c.rpcClient.Call("Server.BuddyMalloc", req, resp); err != nil {
		return 0, fmt.Errorf("rpc: call failed: %v", err)
	}
	if resp.Error != "" {
		return 0, fmt.Errorf("rpc: server error: %s", resp.Error)
	}
	return resp.ID, nil
}

// BuddyFree releases a buddy allocator block on the remote server.
func (c *Client) BuddyFree(id int) error {
	req := &FreeRequest{ID: id}
	resp := &FreeResponse{}
	if err := c.rpcClient.Call("Server.BuddyFree", req, resp); err != nil {
		return fmt.Errorf("rpc: call failed: %v", err)
	}
	if resp.Error != "" {
		return fmt.Errorf("rpc: server error: %s", resp.Error)
	}
	return nil
}

// Access drives a cache access on the remote server and reports the hit.
func (c *Client) Access(address uint64) (bool, error) {
	req := &AccessRequest{Address: address}
	resp := &AccessResponse{}
	if err := c.rpcClient.Call("Server.Access", req, resp); err != nil {
		return false, fmt.Errorf("rpc: call failed: %v", err)
	}
	return resp.Hit, nil
}

// Stats fetches the remote session's dispatch-resolved stats report.
func (c *Client) Stats() (*StatsResponse, error) {
	req := &StatsRequest{}
	resp := &StatsResponse{}
	if err := c.rpcClient.Call("Server.Stats", req, resp); err != nil {
		return nil, fmt.Errorf("rpc: call failed: %v", err)
	}
	return resp, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.rpcClient.Close()
}
