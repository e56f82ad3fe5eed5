package handler

import (
	"net/http"

	"medilink/internal/delivery/dto"
	"medilink/internal/usecase"
	"medilink/pkg/response"
	"medilink/pkg/validator"

	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	log         *logrus.Logger
	userUsecase usecase.UserUsecase
	validator   *validator.CustomValidator
}

func NewUserHandler(log *logrus.Logger, userUsecase usecase.UserUsecase, validator *validator.CustomValidator) *UserHandler {
	return &UserHandler{
		log:         log,
		userUsecase: userUsecase,
		validator:   validator,
	}
}

func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userUsecase.GetAll(r.Context())
	if err != nil {
		writeError(w, h.log, "get users", err)
		return
	}

	response.Success(w, http.StatusOK, users)
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	user, err := h.userUsecase.Profile(r.Context(), actor)
	if err != nil {
		writeError(w, h.log, "get profile", err)
		return
	}

	response.Success(w, http.StatusOK, user)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	userID, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}

	user, err := h.userUsecase.GetByID(r.Context(), actor, userID)
	if err != nil {
		writeError(w, h.log, "get user", err)
		return
	}

	response.Success(w, http.StatusOK, user)
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	user, err := h.userUsecase.Create(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, "create user", err)
		return
	}

	response.Success(w, http.StatusCreated, user)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	userID, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	user, err := h.userUsecase.Update(r.Context(), actor, userID, &req)
	if err != nil {
		writeError(w, h.log, "update user", err)
		return
	}

	response.Success(w, http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	userID, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}

	if err := h.userUsecase.Delete(r.Context(), actor, userID); err != nil {
		writeError(w, h.log, "delete user", err)
		return
	}

	response.Message(w, http.StatusOK, "User deleted successfully")
}
