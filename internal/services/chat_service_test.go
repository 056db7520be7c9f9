// internal/services/chat_service_test.go
package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/restitch/restitch-backend/internal/apperrors"
	"github.com/restitch/restitch-backend/internal/models"
)

type ChatServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *ChatService

	user *models.User
}

func (suite *ChatServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	suite.service = NewChatService(suite.db)
	suite.user = createTestUser(suite.T(), suite.db, "chatter@example.com", models.UserRoleClient)
}

func (suite *ChatServiceTestSuite) TestCreateConversationWithSeedMessage() {
	conversation, err := suite.service.CreateConversation(principalOf(suite.user), &CreateConversationRequest{
		InitialMessage: "Hello, I need a quote",
	})
	suite.NoError(err)
	suite.NotNil(conversation.UserID)
	suite.Equal(suite.user.ID, *conversation.UserID)

	messages, err := suite.service.ListMessages(conversation.ID, ListMessagesParams{})
	suite.NoError(err)
	suite.Len(messages, 1)
	suite.Equal("Hello, I need a quote", messages[0].Content)
	suite.True(messages[0].IsUser)
}

func (suite *ChatServiceTestSuite) TestCreateConversationAnonymous() {
	conversation, err := suite.service.CreateConversation(nil, &CreateConversationRequest{
		UserName:       "Walk-in visitor",
		UserPhone:      "+1 555 0100",
		InitialMessage: "Do you reupholster sofas?",
	})
	suite.NoError(err)
	suite.Nil(conversation.UserID)
	suite.Equal("Walk-in visitor", conversation.UserName)
}

func (suite *ChatServiceTestSuite) TestCreateConversationRequiresMessage() {
	_, err := suite.service.CreateConversation(nil, &CreateConversationRequest{
		InitialMessage: "   ",
	})
	suite.Error(err)
	suite.Equal(apperrors.KindInvalidRequest, apperrors.KindOf(err))
}

func (suite *ChatServiceTestSuite) TestAppendMessageRoundTrip() {
	conversation, err := suite.service.CreateConversation(nil, &CreateConversationRequest{
		InitialMessage: "first",
	})
	suite.NoError(err)

	_, err = suite.service.AppendMessage(conversation.ID, &AppendMessageRequest{
		Content: "hi",
	})
	suite.NoError(err)

	messages, err := suite.service.ListMessages(conversation.ID, ListMessagesParams{Limit: 1})
	suite.NoError(err)
	suite.Len(messages, 1)
	suite.Equal("hi", messages[0].Content)
	suite.True(messages[0].IsUser)
}

func (suite *ChatServiceTestSuite) TestAppendMessageBumpsConversation() {
	conversation, err := suite.service.CreateConversation(nil, &CreateConversationRequest{
		InitialMessage: "first",
	})
	suite.NoError(err)

	var before models.Conversation
	suite.NoError(suite.db.First(&before, conversation.ID).Error)

	_, err = suite.service.AppendMessage(conversation.ID, &AppendMessageRequest{Content: "second"})
	suite.NoError(err)

	var after models.Conversation
	suite.NoError(suite.db.First(&after, conversation.ID).Error)
	suite.False(after.UpdatedAt.Before(before.UpdatedAt))
}

func (suite *ChatServiceTestSuite) TestAppendMessageValidation() {
	conversation, err := suite.service.CreateConversation(nil, &CreateConversationRequest{
		InitialMessage: "first",
	})
	suite.NoError(err)

	_, err = suite.service.AppendMessage(conversation.ID, &AppendMessageRequest{Content: "  "})
	suite.Error(err)
	suite.Equal(apperrors.KindInvalidRequest, apperrors.KindOf(err))

	_, err = suite.service.AppendMessage(suite.user.ID, &AppendMessageRequest{Content: "hi"})
	suite.Error(err)
	suite.Equal(apperrors.KindNotFound, apperrors.KindOf(err))
}

func (suite *ChatServiceTestSuite) TestListMessagesClampsLimit() {
	conversation, err := suite.service.CreateConversation(nil, &CreateConversationRequest{
		InitialMessage: "first",
	})
	suite.NoError(err)

	for i := 0; i < 5; i++ {
		_, err = suite.service.AppendMessage(conversation.ID, &AppendMessageRequest{
			Content: fmt.Sprintf("message %d", i),
		})
		suite.NoError(err)
	}

	// A non-positive limit falls back to the default instead of failing.
	messages, err := suite.service.ListMessages(conversation.ID, ListMessagesParams{Limit: -3})
	suite.NoError(err)
	suite.Len(messages, 6)

	messages, err = suite.service.ListMessages(conversation.ID, ListMessagesParams{Limit: 2})
	suite.NoError(err)
	suite.Len(messages, 2)
	// Newest first.
	suite.Equal("message 4", messages[0].Content)
}

func (suite *ChatServiceTestSuite) TestDeleteConversationCascades() {
	conversation, err := suite.service.CreateConversation(principalOf(suite.user), &CreateConversationRequest{
		InitialMessage: "first",
	})
	suite.NoError(err)

	_, err = suite.service.AppendMessage(conversation.ID, &AppendMessageRequest{Content: "second"})
	suite.NoError(err)

	suite.NoError(suite.service.DeleteConversation(principalOf(suite.user), conversation.ID))

	var messageCount int64
	suite.NoError(suite.db.Model(&models.Message{}).
		Where("conversation_id = ?", conversation.ID).
		Count(&messageCount).Error)
	suite.Equal(int64(0), messageCount)

	_, err = suite.service.ListMessages(conversation.ID, ListMessagesParams{})
	suite.Error(err)
	suite.Equal(apperrors.KindNotFound, apperrors.KindOf(err))
}

func (suite *ChatServiceTestSuite) TestDeleteConversationAuthorization() {
	conversation, err := suite.service.CreateConversation(principalOf(suite.user), &CreateConversationRequest{
		InitialMessage: "first",
	})
	suite.NoError(err)

	stranger := createTestUser(suite.T(), suite.db, "stranger@example.com", models.UserRoleClient)
	err = suite.service.DeleteConversation(principalOf(stranger), conversation.ID)
	suite.Error(err)
	suite.Equal(apperrors.KindUnauthorized, apperrors.KindOf(err))

	// Admins may clean up any conversation.
	admin := createTestUser(suite.T(), suite.db, "admin@example.com", models.UserRoleAdmin)
	suite.NoError(suite.service.DeleteConversation(principalOf(admin), conversation.ID))
}

func (suite *ChatServiceTestSuite) TestDeleteAnonymousConversation() {
	conversation, err := suite.service.CreateConversation(nil, &CreateConversationRequest{
		UserName:       "Visitor",
		InitialMessage: "hello",
	})
	suite.NoError(err)

	// Anonymous conversations may be removed by any authenticated principal.
	suite.NoError(suite.service.DeleteConversation(principalOf(suite.user), conversation.ID))
}

func TestChatServiceSuite(t *testing.T) {
	suite.Run(t, new(ChatServiceTestSuite))
}
