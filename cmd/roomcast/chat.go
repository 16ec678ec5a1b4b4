package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/spf13/cobra"

	"roomcast/internal/proto"
)

func newChatCmd() *cobra.Command {
	var (
		addr     string
		room     string
		username string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Connect to a relay server from the terminal",
		Long: `Connect to a relay server and chat from the terminal.

Plain lines are sent as messages. Commands: /join <room>, /leave, /quit.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			baseCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(baseCtx)
			defer cancel()

			conn, _, err := websocket.Dial(ctx, addr, nil)
			if err != nil {
				return fmt.Errorf("dial: %w", err)
			}
			defer conn.Close(websocket.StatusNormalClosure, "bye")

			join := proto.Inbound{Type: proto.InboundTypeJoin, Room: room, Username: username}
			if err := wsjson.Write(ctx, conn, join); err != nil {
				return fmt.Errorf("join: %w", err)
			}

			go func() {
				for {
					var env proto.Outbound
					if err := wsjson.Read(ctx, conn, &env); err != nil {
						if ctx.Err() == nil {
							fmt.Fprintf(os.Stderr, "read: %v\n", err)
						}
						cancel()
						return
					}
					printEnvelope(env)
				}
			}()

			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				if ctx.Err() != nil {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				switch {
				case line == "":
					continue
				case line == "/quit":
					return nil
				case line == "/leave":
					err = wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeLeave})
				case strings.HasPrefix(line, "/join "):
					target := strings.TrimSpace(strings.TrimPrefix(line, "/join "))
					err = wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeJoin, Room: target, Username: username})
				default:
					err = wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeMessage, Text: line})
				}
				if err != nil {
					return fmt.Errorf("send: %w", err)
				}
			}
			return scanner.Err()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "ws://localhost:8080/ws", "WebSocket address")
	cmd.Flags().StringVar(&room, "room", proto.DefaultRoom, "room to join")
	cmd.Flags().StringVar(&username, "username", "", "display name")
	return cmd
}

func printEnvelope(env proto.Outbound) {
	switch env.Type {
	case proto.OutboundTypeMessage:
		fmt.Printf("[%s] %s: %s\n", env.Room, env.Username, env.Text)
	case proto.OutboundTypeInfo:
		fmt.Printf("* %s\n", env.Text)
	case proto.OutboundTypeJoined:
		fmt.Printf("* joined %s\n", env.Room)
	case proto.OutboundTypeError:
		fmt.Printf("! %s\n", env.Text)
	}
}
