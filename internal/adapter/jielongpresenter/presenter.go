package jielongpresenter

import (
	"context"
	"strings"

	"github.com/park285/Jielong-KakaoTalk-bot/internal/irisfast"
	"github.com/park285/Jielong-KakaoTalk-bot/internal/util"
)

// Presenter delivers formatted texts without coupling to the command layer.
type Presenter struct {
	egress irisfast.Egress
}

func NewPresenter(egress irisfast.Egress) *Presenter {
	return &Presenter{egress: egress}
}

func (p *Presenter) Text(ctx context.Context, room, message string) error {
	if p == nil || p.egress == nil || strings.TrimSpace(message) == "" {
		return nil
	}
	return p.egress.SendText(ctx, room, message)
}

// LongText collapses the body behind KakaoTalk's 전체보기 fold, keeping
// header visible. Used for history dumps that would flood the room.
func (p *Presenter) LongText(ctx context.Context, room, header, body string) error {
	if p == nil || p.egress == nil || strings.TrimSpace(body) == "" {
		return nil
	}
	return p.egress.SendText(ctx, room, util.ApplyKakaoSeeMorePadding(body, header))
}
