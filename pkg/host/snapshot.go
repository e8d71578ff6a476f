package host

import (
	"context"
	"io"
	"io/ioutil"
	"time"

	"github.com/golang/protobuf/proto"

	pb "github.com/robotalks/rtecom/pkg/proto/rtecom/v1"
	"github.com/robotalks/rtecom/pkg/rtedbg"
)

// Snapshot copies the whole debug-log region. With freeze the logging is
// stopped while reading and resumed afterwards.
func (c *Client) Snapshot(ctx context.Context, device string, freeze bool) (s *pb.Snapshot, err error) {
	if freeze {
		if err = c.Freeze(ctx); err != nil {
			return nil, err
		}
		defer func() {
			if resumeErr := c.Resume(ctx); err == nil {
				err = resumeErr
			}
		}()
	}
	h, err := c.ReadHeader(ctx)
	if err != nil {
		return nil, err
	}
	data, err := c.ReadRegion(ctx, 0, uint32(h.RegionSize()))
	if err != nil {
		return nil, err
	}
	// the header is read again with the buffer for consistency
	if h, err = rtedbg.DecodeHeader(data); err != nil {
		return nil, err
	}
	return &pb.Snapshot{
		Device:             device,
		TakenAt:            time.Now().UnixNano(),
		LastIndex:          h.LastIndex,
		Filter:             h.Filter,
		Config:             h.Config,
		TimestampFrequency: h.TimestampFrequency,
		FilterCopy:         h.FilterCopy,
		BufferSize:         h.BufferSize,
		Data:               data,
	}, nil
}

// SnapshotHeader extracts the header of a snapshot.
func SnapshotHeader(s *pb.Snapshot) rtedbg.Header {
	return rtedbg.Header{
		LastIndex:          s.GetLastIndex(),
		Filter:             s.GetFilter(),
		Config:             s.GetConfig(),
		TimestampFrequency: s.GetTimestampFrequency(),
		FilterCopy:         s.GetFilterCopy(),
		BufferSize:         s.GetBufferSize(),
	}
}

// SaveSnapshot writes the snapshot in protobuf encoding.
func SaveSnapshot(w io.Writer, s *pb.Snapshot) error {
	data, err := proto.Marshal(s)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// LoadSnapshot reads a snapshot written by SaveSnapshot.
func LoadSnapshot(r io.Reader) (*pb.Snapshot, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s := &pb.Snapshot{}
	if err := proto.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}
