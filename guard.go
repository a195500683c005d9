package george

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/oklahomer/go-kasumi/logger"
)

// FaultNotice is sent to the channel when a command handler panics.
// The cause is only logged, never shown to the user.
const FaultNotice = "**ERROR:** an internal fault occurred while servicing your request"

const faultNoticeTimeout = 10 * time.Second

// messageSender is the part of the session needed to reply to a channel.
type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// dispatchGuard sends FaultNotice to a channel when the function it runs does not return normally.
type dispatchGuard struct {
	channelID string
	sender    messageSender
	notices   *sync.WaitGroup
}

// newDispatchGuard captures what the notice needs up front,
// so nothing the guarded function does can take it away.
func newDispatchGuard(channelID string, sender messageSender, notices *sync.WaitGroup) *dispatchGuard {
	return &dispatchGuard{
		channelID: channelID,
		sender:    sender,
		notices:   notices,
	}
}

// run calls fn and reports whether it terminated abnormally.
// A panic is recovered and logged, and the notice is sent on its own goroutine.
// runtime.Goexit also counts as abnormal; the notice is sent and the goroutine still exits.
func (g *dispatchGuard) run(fn func()) (faulted bool) {
	completed := false
	defer func() {
		if completed {
			return
		}

		recovered := recover()
		faulted = true
		logger.Errorf("Fault while servicing request in channel %s: %v\n%s", g.channelID, recovered, debug.Stack())

		g.notices.Add(1)
		go func() {
			defer g.notices.Done()
			notifyFault(g.sender, g.channelID)
		}()
	}()

	fn()
	completed = true
	return false
}

// notifyFault makes one best-effort attempt to deliver FaultNotice.
// Failures, including panics inside the sender, are logged and dropped.
func notifyFault(sender messageSender, channelID string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("Panic while sending fault notice to %s: %v", channelID, r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), faultNoticeTimeout)
	defer cancel()

	_, err := sender.ChannelMessageSend(channelID, FaultNotice, discordgo.WithContext(ctx))
	if err != nil {
		logger.Warnf("Failed to send fault notice to %s: %+v", channelID, err)
	}
}
