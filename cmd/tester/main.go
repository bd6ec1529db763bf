package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"chat-app/auth"
	"chat-app/domain/chat"
	"chat-app/internal"
	"chat-app/moderation"
	"chat-app/repositories"
	"chat-app/services"
)

// A throwaway end-to-end scenario against real storage: registration,
// contacts, a group, moderated messages and paginated history, rendered
// as tables. Handy for eyeballing behavior without wiring a client.
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return err
	}

	logger := logs.GetLoggerFromLevel(slog.LevelWarn)
	ctx := context.Background()

	dbPath, err := os.MkdirTemp("", "tester-badger-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dbPath)
	indexPath, err := os.MkdirTemp("", "tester-bluge-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(indexPath)

	db, err := badger.Open(badger.DefaultOptions(dbPath).WithLoggingLevel(badger.ERROR))
	if err != nil {
		return err
	}
	defer db.Close()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(indexPath))
	if err != nil {
		return err
	}
	defer blugeWriter.Close()

	userRepository := repositories.NewUserRepository(db)
	contactRepository := repositories.NewContactRepository(db)
	groupRepository := repositories.NewGroupRepository(db)
	messageRepository := repositories.NewMessageRepository(db, logger)
	searchIndex := repositories.NewUserSearchIndex(blugeWriter)

	hasher := auth.NewArgon2Hasher()
	tokens := auth.NewJWTService([]byte(config.AuthTokenSecret), config.AuthTokenDuration)
	moderator, err := moderation.NewModerator(config.CensoredWords, charReplacement, logger)
	if err != nil {
		return err
	}

	authService := services.NewAuthService(userRepository, searchIndex, hasher, tokens, logger)
	contactService := services.NewContactService(userRepository, contactRepository)
	groupService := services.NewGroupService(userRepository, groupRepository)
	messageService := services.NewMessageService(userRepository, groupRepository, messageRepository, moderator, logger)
	userService := services.NewUserService(userRepository, searchIndex, logger)

	// Registration
	alice, err := authService.Register(ctx, "alice", "Alice Doe", "password1")
	if err != nil {
		return err
	}
	bob, err := authService.Register(ctx, "bob", "Bob Doe", "password2")
	if err != nil {
		return err
	}
	carol, err := authService.Register(ctx, "carol", "Carol Doe", "password3")
	if err != nil {
		return err
	}

	login, err := authService.Login(ctx, "alice", "password1")
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s, token %s...\n\n", login.Username, login.Token[:24])

	// Contacts
	if _, err := contactService.AddContact(ctx, alice.ID, bob.ID); err != nil {
		return err
	}
	contacts, err := contactService.ListContacts(ctx, bob.ID)
	if err != nil {
		return err
	}
	renderTable("CONTACTS OF BOB", []string{"Username", "Name"},
		lo.Map(contacts, func(c services.ContactDTO, _ int) []string {
			return []string{c.Username, c.Name}
		}))

	// Group
	group, err := groupService.CreateGroup(ctx, "Badger Fans", alice.ID)
	if err != nil {
		return err
	}
	if err := groupService.AddMember(ctx, group.ID, alice.ID, bob.ID); err != nil {
		return err
	}
	if err := groupService.AddMember(ctx, group.ID, alice.ID, carol.ID); err != nil {
		return err
	}

	// Messages, including one the moderator rewrites
	for i := 1; i <= 12; i++ {
		if _, err := messageService.SendMessage(ctx, chat.SendMessageCommand{
			Content:         fmt.Sprintf("direct message %d", i),
			SenderID:        alice.ID,
			RecipientUserID: lo.ToPtr(bob.ID),
		}); err != nil {
			return err
		}
	}
	if _, err := messageService.SendMessage(ctx, chat.SendMessageCommand{
		Content:          "the badger strikes again",
		SenderID:         carol.ID,
		RecipientGroupID: lo.ToPtr(group.ID),
	}); err != nil {
		return err
	}

	// Paginated history, newest page last
	history, err := messageService.GetMessages(ctx, chat.GetMessagesQuery{
		UserID:          bob.ID,
		RecipientUserID: lo.ToPtr(alice.ID),
		Page:            2,
		PageSize:        5,
	})
	if err != nil {
		return err
	}
	renderTable(
		fmt.Sprintf("DM HISTORY page %d/%d (%d total)", history.Page, history.TotalPages, history.TotalCount),
		[]string{"Sender", "Content", "Sent At"},
		lo.Map(history.Items, func(m services.MessageDTO, _ int) []string {
			return []string{m.SenderUsername, m.Content, m.SentAt.Format("15:04:05.000")}
		}))

	groupHistory, err := messageService.GetMessages(ctx, chat.GetMessagesQuery{
		UserID:           bob.ID,
		RecipientGroupID: lo.ToPtr(group.ID),
		Page:             1,
		PageSize:         10,
	})
	if err != nil {
		return err
	}
	renderTable("GROUP HISTORY", []string{"Sender", "Content"},
		lo.Map(groupHistory.Items, func(m services.MessageDTO, _ int) []string {
			return []string{m.SenderUsername, m.Content}
		}))

	// Search
	found, err := userService.SearchUsers(ctx, "ol", 1, 10)
	if err != nil {
		return err
	}
	renderTable("SEARCH 'ol'", []string{"Username", "Name"},
		lo.Map(found.Items, func(u services.UserDTO, _ int) []string {
			return []string{u.Username, u.Name}
		}))

	return nil
}

func renderTable(title string, headers []string, rows [][]string) {
	fmt.Printf("--- %s ---\n", title)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
	fmt.Println()
}
