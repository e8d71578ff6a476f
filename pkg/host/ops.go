package host

import (
	"context"

	"github.com/robotalks/rtecom/pkg/rtecom"
	"github.com/robotalks/rtecom/pkg/rtedbg"
)

func (c *Client) ack(ctx context.Context, cmd rtecom.Command, address, data uint32) error {
	_, err := c.Do(ctx, rtecom.Request{Command: cmd, Address: address, Data: data}, 1)
	return err
}

func (c *Client) chunked(ctx context.Context, cmd rtecom.Command, address, size uint32) ([]byte, error) {
	chunk := uint32(c.MaxChunk)
	if chunk == 0 || chunk > rtecom.DefaultMaxTransfer {
		chunk = rtecom.DefaultMaxTransfer
	}
	out := make([]byte, 0, size)
	for size > 0 {
		n := size
		if n > chunk {
			n = chunk
		}
		data, err := c.Do(ctx, rtecom.Request{Command: cmd, Address: address, Data: n}, int(n))
		if err != nil {
			return out, err
		}
		out = append(out, data...)
		address += n
		size -= n
	}
	return out, nil
}

// WriteWord writes a header word of the debug-log region.
func (c *Client) WriteWord(ctx context.Context, index int, value uint32) error {
	return c.ack(ctx, rtecom.CmdWriteDebugRegion, uint32(index), value)
}

// ReadRegion reads size bytes of the debug-log region from offset.
func (c *Client) ReadRegion(ctx context.Context, offset, size uint32) ([]byte, error) {
	return c.chunked(ctx, rtecom.CmdReadDebugRegion, offset, size)
}

// ReadHeader reads the region header.
func (c *Client) ReadHeader(ctx context.Context) (rtedbg.Header, error) {
	data, err := c.ReadRegion(ctx, 0, rtedbg.HeaderSize)
	if err != nil {
		return rtedbg.Header{}, err
	}
	return rtedbg.DecodeHeader(data)
}

// SetFilter replaces the message filter.
func (c *Client) SetFilter(ctx context.Context, filter uint32) error {
	return c.WriteWord(ctx, rtedbg.IndexFilter, filter)
}

// Freeze stops logging: the filter is saved in filter_copy and cleared.
func (c *Client) Freeze(ctx context.Context) error {
	h, err := c.ReadHeader(ctx)
	if err != nil {
		return err
	}
	if h.Filter == 0 {
		return nil
	}
	if err := c.WriteWord(ctx, rtedbg.IndexFilterCopy, h.Filter); err != nil {
		return err
	}
	return c.SetFilter(ctx, 0)
}

// Resume restores the filter saved by Freeze.
func (c *Client) Resume(ctx context.Context) error {
	h, err := c.ReadHeader(ctx)
	if err != nil {
		return err
	}
	if h.Filter != 0 || h.FilterCopy == 0 {
		return nil
	}
	return c.SetFilter(ctx, h.FilterCopy)
}

// ReadMemory reads size bytes from an absolute address.
func (c *Client) ReadMemory(ctx context.Context, address, size uint32) ([]byte, error) {
	return c.chunked(ctx, rtecom.CmdRead, address, size)
}

// Write32 writes a word to an absolute address.
func (c *Client) Write32(ctx context.Context, address, value uint32) error {
	return c.ack(ctx, rtecom.CmdWrite32, address, value)
}

// Write16 writes a half word to an absolute address.
func (c *Client) Write16(ctx context.Context, address uint32, value uint16) error {
	return c.ack(ctx, rtecom.CmdWrite16, address, uint32(value))
}

// Write8 writes a byte to an absolute address.
func (c *Client) Write8(ctx context.Context, address uint32, value uint8) error {
	return c.ack(ctx, rtecom.CmdWrite8, address, uint32(value))
}
