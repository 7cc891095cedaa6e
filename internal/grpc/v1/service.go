// Package v1 gRPC-интерфейс linkmaker.v1.LinkMaker. Сообщения передаются
// как google.protobuf.Struct, поэтому сгенерированный код не нужен.
package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "linkmaker.v1.LinkMaker"

// Полные имена методов.
const (
	LoginMethod        = "/" + ServiceName + "/Login"
	CreateLinkMethod   = "/" + ServiceName + "/CreateLink"
	GetSettingsMethod  = "/" + ServiceName + "/GetSettings"
	SaveSettingsMethod = "/" + ServiceName + "/SaveSettings"
)

// LinkMakerServer серверная часть сервиса.
type LinkMakerServer interface {
	Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	CreateLink(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetSettings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SaveSettings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(srv LinkMakerServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

func methodHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LinkMakerServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LinkMakerServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc описание сервиса для grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LinkMakerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Login", Handler: methodHandler(LoginMethod, LinkMakerServer.Login)},
		{MethodName: "CreateLink", Handler: methodHandler(CreateLinkMethod, LinkMakerServer.CreateLink)},
		{MethodName: "GetSettings", Handler: methodHandler(GetSettingsMethod, LinkMakerServer.GetSettings)},
		{MethodName: "SaveSettings", Handler: methodHandler(SaveSettingsMethod, LinkMakerServer.SaveSettings)},
	},
	Metadata: "linkmaker/v1/linkmaker.proto",
}

// RegisterLinkMakerServer регистрирует srv в s.
func RegisterLinkMakerServer(s grpc.ServiceRegistrar, srv LinkMakerServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client клиент сервиса поверх соединения.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, LoginMethod, in, opts...)
}

func (c *Client) CreateLink(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CreateLinkMethod, in, opts...)
}

func (c *Client) GetSettings(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetSettingsMethod, in, opts...)
}

func (c *Client) SaveSettings(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SaveSettingsMethod, in, opts...)
}
