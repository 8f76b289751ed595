package device

import (
	"context"
	"encoding/binary"

	"github.com/goxlr-daemon/goxlrd/internal/codec"
	"github.com/goxlr-daemon/goxlrd/internal/mic"
)

// sendEffectParams uploads a batch of integer-encoded uploads via the
// Effect parameter pipe.
func (a *Actor) sendEffectParams(ctx context.Context, uploads []mic.Upload) error {
	pairs := make([]codec.ParamPair, len(uploads))
	for i, u := range uploads {
		pairs[i] = codec.ParamPair{Key: codec.EffectKeyID[string(u.Key)], Value: codec.Int32Value(u.Int)}
	}
	_, err := a.transport.Send(ctx, codec.CommandID(codec.OpEffectParameters, 0), codec.EncodeParamList(pairs))
	return err
}

// sendParamParams uploads a batch of float-encoded uploads via the
// microphone parameter pipe.
func (a *Actor) sendParamParams(ctx context.Context, uploads []mic.Upload) error {
	pairs := make([]codec.ParamPair, len(uploads))
	for i, u := range uploads {
		pairs[i] = codec.ParamPair{Key: codec.ParamKeyID[string(u.Key)], Value: codec.Float32Value(u.Float)}
	}
	_, err := a.transport.Send(ctx, codec.CommandID(codec.OpMicParameters, 0), codec.EncodeParamList(pairs))
	return err
}

// readMicLevel issues the mic-level request and converts the raw 16-bit
// reading to dB (§4.2).
func (a *Actor) readMicLevel(ctx context.Context) (float64, error) {
	resp, err := a.transport.Send(ctx, codec.CommandID(codec.OpMicLevel, 0), nil)
	if err != nil {
		return 0, err
	}
	if len(resp) < 2 {
		return 0, nil
	}
	return codec.DecodeMicLevel(binary.LittleEndian.Uint16(resp)), nil
}

